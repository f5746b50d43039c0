// Package specialparam implements C9: the out-of-band handling of the
// `timeframe` and `session` constructor keyword arguments (they are never
// stored in AlgorithmNode.Options) and the post-walk session-closure
// synthesis that auto-creates missing `sessions` nodes.
//
// Grounded on original_source's special_parameter_handler.cpp for the
// "sessions_<counter>" naming and the closure scan over (session,
// timeframe) pairs.
package specialparam
