package handlers

// @title Stream Ingest API
// @version 1.0
// @description Accepts browser events and device telemetry over HTTP and appends each as one newline-delimited JSON record to a delivery stream

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Gateway usage plan key; not checked by the local server.

// @tag.name ingest
// @tag.description Record ingestion

// @tag.name operations
// @tag.description Health and metrics
