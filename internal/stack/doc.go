// Package stack hands the database connection details to an infrastructure
// stack.
//
// A Template is fetched from a URL (https://, s3:// or a local path), and
// only its parameter section is read: the WorkspaceDetails parameter lists
// the workspaces the stack expects, and TTL its lifetime in hours. Both
// CloudFormation (Parameters/Default) and ARM (parameters/defaultValue)
// layouts are understood. The template body itself is passed to a Deployer
// unchanged.
//
// A Catalog maps template names to URLs so a launch can refer to a template
// by name.
package stack
