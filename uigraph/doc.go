// Package uigraph models the node/edge graph a user assembles visually
// (UiData and friends, spec §3.3) and implements ValidateUIData (C3), the
// 5-phase validator that turns a UiData plus a component registry into
// either a topologically ordered node list or a batch of issue.Issue
// diagnostics.
//
// The phase ordering and issue codes are grounded on the reference
// validator (original_source's src/strategy/algorithm_validator.cpp);
// acyclicity (phase 4) is delegated to toposort.Sort over a core.Graph
// built from the edge set, the same Kahn's-algorithm path C12 uses
// elsewhere.
package uigraph
