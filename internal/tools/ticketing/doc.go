// Package ticketing implements the Kayako tool surface: ticket search,
// retrieval, conversation history, and the department/status directory
// helpers. Every tool follows the same pipeline: build endpoint-specific
// parameters, call the transport client, shape the normalized response,
// return one string.
package ticketing
