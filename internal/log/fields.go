// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// Upstream fields
	FieldRegion    = "region"
	FieldBaseURL   = "base_url"
	FieldOperation = "operation"
	FieldStatus    = "status"

	// Sync fields
	FieldChannels   = "channels"
	FieldProgrammes = "programmes"
	FieldBatch      = "batch"
	FieldBatches    = "batches"
	FieldPolicy     = "policy"

	// Path fields
	FieldPath         = "path"
	FieldPlaylistPath = "playlist_path"
	FieldXMLTVPath    = "xmltv_path"
)
