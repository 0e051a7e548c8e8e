package core

// Prompter asks the user blocking questions. Confirm returns the user's answer,
// Alert shows an informational notice.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// NoFilesMessage is shown when an upload is started without selecting a file.
const NoFilesMessage = "Please select at least one image file."
