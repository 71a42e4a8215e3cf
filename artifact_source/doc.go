// Package artifact_source discovers the files a read job will process.
//
// Each configured path spec is either a literal path or a pattern containing '*' or '?'.
// Patterns are walked from their parent directory (the prefix before the first wildcard)
// and every regular file whose full path matches is selected. Literal paths select the
// file itself, or every file beneath a directory.
//
// The results of all specs are merged into a [CandidateSet], which holds each path once
// and materializes in lexical order.
//
// Enumeration fails fast: a spec whose directory is missing or unreadable raises
// InvalidSourcePath before walking, and a directory which cannot be listed part way
// through a walk raises DirectoryUnreadable and aborts the whole enumeration.
package artifact_source
