package constvars

const (
	ResponseUnknown = "unknown"

	FormStartedSuccessMessage       = "form session started successfully"
	FormFoundSuccessMessage         = "get form session successfully"
	FormValueChangedSuccessMessage  = "value changed successfully"
	FormRecordAddedSuccessMessage   = "record added successfully"
	FormRecordRemovedSuccessMessage = "record removed successfully"
	FormUnitResetSuccessMessage     = "inputs cleared successfully"
	FormAttachmentSuccessMessage    = "attachment uploaded successfully"
	FormSavedSuccessMessage         = "answers saved successfully"
	FormDiscardedSuccessMessage     = "form session discarded successfully"
)
