// Package codec converts between the ansibridge data model and the
// automation engine's native file formats: the group/hosts/vars/children
// inventory mapping and the list-of-plays playbook document, plus the
// JSON inventory listing the engine produces for an existing source.
package codec
