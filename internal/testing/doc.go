// Package testing provides test utilities and fakes shared by unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - FakeSingleStore: in-memory SingleStore Management API served over httptest
//   - FakeClock: manually advanced clock for polling tests
//   - TestContext: context bound to the test lifetime
//
// Usage:
//
//	api := testing.NewFakeSingleStore(t)
//	api.AddRegion("aws-us-east-1", "US East 1 (N. Virginia)")
//	client := singlestore.NewClient(testing.FakeAPIKey, singlestore.WithBaseURL(api.URL()))
package testing
