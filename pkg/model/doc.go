// Package model defines the typed value objects exchanged through the
// ansibridge tool surface: inventories, playbooks, SSH credential
// configuration, run configuration, and run results.
//
// The types carry three tag families:
//   - json: wire names for the line protocol,
//   - validate: go-playground/validator rules applied at dispatch,
//   - desc: field descriptions surfaced in the generated tool schemas.
package model
