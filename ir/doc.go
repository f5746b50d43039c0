// Package ir defines the canonical algorithm-graph intermediate
// representation both the UI-graph compiler (graphcompile) and the script
// compiler (scriptcompile) produce: AlgorithmNode and
// PartialTradeSignalMetaData, plus the handle-reference helpers
// ("src_id#src_handle") both compilers and cse share.
package ir
