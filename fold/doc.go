// Package fold implements C6: the two-pass constant folder that runs over
// an already-parsed ast.Module before script compilation. Pass one records
// every top-level `name = <constant expression>` binding; pass two walks
// every statement and rewrites constant Subscript slices (the lag-operator
// index, e.g. `src.c[lookback_period]` or `src.c[10 + 5]`) into a literal
// Constant, leaving every other occurrence of a folded name untouched.
//
// Grounded on original_source's constant_folder.h/.cpp: the same two-pass
// split, the same restriction to Subscript slices (folding a bare Name
// anywhere else would risk duplicate literal nodes downstream), and the
// same arithmetic semantics (int-preserving + - * %, real division, IEEE
// fmod, division/modulo by zero silently aborting the fold).
package fold
