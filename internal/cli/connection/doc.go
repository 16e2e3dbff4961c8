// Package connection is the portal-cli HTTP client.
//
// Responses from portal-server arrive in the standard envelope
// ({code, message, request_id, timestamp, data, details}); ParseResponse
// unwraps data on success and turns an error envelope into an *APIError.
package connection
