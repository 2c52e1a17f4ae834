// Package services provides the application layer of the approval portal.
//
// This package contains:
//   - The in-memory record store with copy-on-read semantics (RecordStore)
//   - Tab filtering, pagination and expression filters over record lists
//   - The portal facade used by the HTTP layer (PortalService)
//   - The approver identity used to stamp audit entries (ApproverProvider)
//
// State transitions themselves live in the domain package; services only
// look records up, delegate to the workflow engine and store the result.
package services
