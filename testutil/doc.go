// Package testutil provides shared test helpers, fixtures and mocks.
//
// Usage:
//
//	ctx := testutil.TestContext(t)
//	client := mocks.NewLLMClient().WithIntent("property_search")
//	listings := fixtures.Listings()
package testutil
