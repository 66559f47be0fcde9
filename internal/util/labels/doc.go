// Package labels provides consistent tagging for demo lab stacks.
//
// Every stack carries the same tag keys, so labs can be found by owner,
// template or run in the AWS and Azure consoles. Tags are built with a
// builder that drops empty values and caps value length.
package labels
