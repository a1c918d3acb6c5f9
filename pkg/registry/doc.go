// Package registry persists named mind maps.
//
// All maps live under one storage key (default "allMindMaps") as a single
// JSON object, map name to node table to node record:
//
//	{
//	  "My first map": {
//	    "node-0": {"id": "node-0", "text": "main idea", "parentId": "null",
//	               "children": "node-1", "x": "412px", "y": "180px"},
//	    "node-1": {"id": "node-1", "text": "Sub", "parentId": "node-0",
//	               "children": "", "x": "412px", "y": "268px"}
//	  }
//	}
//
// The format is shared with maps written by earlier versions of the editor:
// roots carry the string "null" as parent, children are a comma-joined id
// list, and coordinates are CSS pixel strings that are omitted when a node
// has no stored position. Key order of both levels survives a load and save
// cycle.
//
// # Failure handling
//
// The [Manager] never lets damaged data stop the editor. A missing or empty
// entry loads as a fresh map with one root; an unparseable registry or
// entry does the same and is reported as [StatusCorrupt]. Only failures of
// the storage medium itself are returned as errors.
package registry
