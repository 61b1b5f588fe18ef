// Package model defines the value types shared by all hazreport stores:
// projects, hazard reports, evidence attachments, option lists, and the
// vulnerability knowledge base.
//
// Invariants owned here:
//   - Report.InternalID is system-generated and immutable; stores must never
//     accept one from caller input.
//   - Report.ReportID (the user-facing number) is unique within its project,
//     compared case-sensitively after canonicalization.
//   - ScreenshotContent is a closed tagged union (text | image); every
//     consumer must handle both kinds.
//
// JSON field names match the on-disk document format, so values round-trip
// through the kv layer byte-compatibly across process restarts.
package model
