// Package singlestore provides a thin client for the SingleStore Management API.
//
// The client covers the resources needed to provision a demo database:
// regions, workspace groups and workspaces. It authenticates every call
// with a bearer token derived from the caller's API key and normalizes
// responses into the types in this package.
//
// The client does not retry. Non-2xx responses and transport failures are
// returned as *APIError so callers can decide how to react; named lookups
// that require a match fail with *NotFoundError.
package singlestore
