package model

type FileType string

const (
	FileTypePDF FileType = "PDF"
	FileTypeDOC FileType = "DOC"
	FileTypePPT FileType = "PPT"
	FileTypeZIP FileType = "ZIP"
	FileTypeIMG FileType = "IMG"
)

// StudyFile is an uploaded study resource together with its payload.
// At most one of FileBlobData, FileChunks or ObjectKey carries the content.
type StudyFile struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Subject       string   `json:"subject"`
	Semester      string   `json:"semester"`
	Uploader      string   `json:"uploader"`
	UploaderID    string   `json:"uploaderId"`
	FileType      FileType `json:"fileType"`
	FileSize      string   `json:"fileSize"`
	UploadDate    string   `json:"uploadDate"`
	DownloadCount int      `json:"downloadCount"`
	Description   string   `json:"description,omitempty"`
	Status        Status   `json:"status"`
	FileBlobData  string   `json:"fileBlobData,omitempty"`
	FileChunks    []string `json:"fileChunks,omitempty"`
	ObjectKey     string   `json:"objectKey,omitempty"`

	// DownloadURL is resolved on download for object payloads and never stored.
	DownloadURL string `json:"downloadUrl,omitempty"`
}

func (f *StudyFile) SetKey(key string) { f.ID = key }

func (f *StudyFile) IsApproved() bool {
	return f.Status == StatusApproved
}

// Summary strips payload fields for list responses.
func (f StudyFile) Summary() StudyFile {
	f.FileBlobData = ""
	f.FileChunks = nil
	f.DownloadURL = ""
	return f
}
