package dto

type UploadedFileResponse struct {
	MediaAttachmentPayload
	Uploader string `json:"uploader"`
}
