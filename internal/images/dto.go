package images

import "time"

const uploadedMessage = "Image uploaded successfully"

// UploadResponse is returned by POST /upload-image.
type UploadResponse struct {
	FileID             string  `json:"file_id"`
	FileName           string  `json:"filename"`
	Path               string  `json:"path"`
	Message            string  `json:"message"`
	SuggestedFragility string  `json:"suggested_fragility"`
	Confidence         float64 `json:"confidence"`
	AnalysisNote       string  `json:"analysis_note"`
}

// ImageResponse is returned by GET /images/:id.
type ImageResponse struct {
	FileID             string    `json:"file_id"`
	FileName           string    `json:"filename"`
	OriginalName       string    `json:"original_name"`
	MimeType           string    `json:"mime_type"`
	SizeBytes          int64     `json:"size_bytes"`
	SuggestedFragility string    `json:"suggested_fragility"`
	Confidence         float64   `json:"confidence"`
	Reasoning          []string  `json:"reasoning"`
	UploadedAt         time.Time `json:"uploaded_at"`
}

func toUploadResponse(img Image) UploadResponse {
	return UploadResponse{
		FileID:             img.ID,
		FileName:           img.FileName,
		Path:               img.StorageKey,
		Message:            uploadedMessage,
		SuggestedFragility: img.Assessment.SuggestedLevel.String(),
		Confidence:         img.Assessment.Confidence,
		AnalysisNote:       img.Assessment.Note(),
	}
}

func toImageResponse(img Image) ImageResponse {
	reasoning := img.Assessment.Reasoning
	if reasoning == nil {
		reasoning = []string{}
	}
	return ImageResponse{
		FileID:             img.ID,
		FileName:           img.FileName,
		OriginalName:       img.OriginalName,
		MimeType:           img.MimeType,
		SizeBytes:          img.SizeBytes,
		SuggestedFragility: img.Assessment.SuggestedLevel.String(),
		Confidence:         img.Assessment.Confidence,
		Reasoning:          reasoning,
		UploadedAt:         img.CreatedAt,
	}
}
