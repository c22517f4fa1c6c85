// Package purge detects block definitions that nothing in model space
// references and deletes them one at a time through a drawing.Session.
//
// The pipeline has four stages that run strictly in order on one goroutine:
//
//	ListBlocks      -> []BlockDescriptor   (block table snapshot)
//	ScanUsage       -> UsageTally          (model-space reference counts)
//	ResolveInactive -> []string            (catalog minus usage minus layouts/xrefs)
//	Purge           -> *Report             (guarded delete + verify per name)
//
// Analyze composes the first three and classifies the run. Stage failures
// and per-block failures are values (errors and Outcomes), never panics;
// only an unreachable session aborts a run.
package purge
