// Package naming provides consistent naming functions for lab resources.
//
// A lab is named {owner}-{template}-{unix-timestamp}, e.g.
// jdoe-kafka-1760788800. The workspace group and the infrastructure stack
// both carry the lab name, so a rerun with the same name finds them again.
package naming
