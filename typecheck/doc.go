// Package typecheck implements the data-type lattice of spec §4.7:
// GetNodeOutputType resolution order, IsTypeCompatible, and the
// synthetic-cast insertion rules for Boolean<->numeric coercion.
//
// Grounded on original_source's type_checker.h/.cpp for the cast-direction
// table and synthetic node naming (boolean_select / neq, bool_to_num_cast_k
// / num_to_bool_cast_k ids).
package typecheck
