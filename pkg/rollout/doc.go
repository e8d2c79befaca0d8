// Package rollout holds the scalar and enum types shared by every layer of
// the update agent: the persisted action id, the poll interval bounds, the
// download progress tracker, and the outcome codes a probe cycle can
// return. Packages that need these types import rollout rather than one
// another, so the protocol stack has a single shared vocabulary instead of
// each layer defining its own copy.
package rollout
