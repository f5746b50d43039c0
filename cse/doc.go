// Package cse implements the common-subexpression-elimination pass (C11):
// semantic-hash bucketing plus full structural equality to find duplicate
// algorithm nodes, remapping every "src_id#handle" reference in the
// surviving nodes to the earliest-occurring canonical node.
//
// Grounded on original_source's cse_optimizer.h (ComputeSemanticHash,
// SemanticEquals, the hash_combine formula, and the scalar-type/executor
// exclusions).
package cse
