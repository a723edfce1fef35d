// Package todo holds the workday task model and its JSON document store.
//
// The document (tasks.json) holds one board per work context:
//
//	{
//	  "schema_version": 1,
//	  "session_start": "2026-10-18T09:00:00Z",
//	  "contexts": {
//	    "team_a": {
//	      "tasks": [
//	        {
//	          "id": "3f1c2a9e-…",
//	          "title": "Email client",
//	          "completed": false,
//	          "created_at": "2026-10-18T09:05:00Z",
//	          "completed_at": null,
//	          "notes": ""
//	        }
//	      ],
//	      "active_log": "met with vendor"
//	    },
//	    "team_b": { "tasks": [], "active_log": "" },
//	    "project": { "tasks": [], "active_log": "" }
//	  }
//	}
//
// # Contexts
//
// The contexts are fixed: team_a, team_b and project. Each owns an ordered
// task list and one free-text work log. Keys that are not one of the three
// are kept when the file is rewritten but are otherwise ignored.
//
// # Loading
//
// A missing file yields a fresh document with three empty boards. Content that
// does not parse or does not match the bundled schema fails with a
// *CorruptError; nothing is discarded silently. Unknown fields are ignored and
// missing optional fields take their zero values.
//
// # Saving
//
// Documents are written with 2-space indentation and a trailing newline to a
// temporary file in the data directory, which is then renamed over tasks.json.
// A crash mid-save leaves the previous document in place.
//
// Mutations on *Document never touch the disk; callers save explicitly.
package todo
