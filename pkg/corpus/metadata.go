package corpus

import "fmt"

// Metadata is the payload stored alongside each indexed chunk. It carries
// everything needed to render a citation without re-reading the source file.
type Metadata struct {
	Text       string `json:"text"`
	Chapter    string `json:"chapter"`
	Section    string `json:"section"`
	SourceURL  string `json:"source_url"`
	OriginPath string `json:"file_path"`
	ChunkIndex int    `json:"chunk_index"`

	// OriginalID is the stable human-readable id, <stem>_chunk_<i>. Point ids
	// are random UUIDs, so this is the only way back to the source position.
	OriginalID string `json:"original_id"`
}

// ChunkMetadata builds the Metadata for chunk i of doc.
func ChunkMetadata(doc Document, i int, text string) Metadata {
	return Metadata{
		Text:       text,
		Chapter:    doc.Chapter,
		Section:    doc.Section,
		SourceURL:  doc.SourceURL,
		OriginPath: doc.Path,
		ChunkIndex: i,
		OriginalID: fmt.Sprintf("%s_chunk_%d", doc.Stem, i),
	}
}

// Payload flattens the metadata into the generic map shape vector stores
// accept.
func (m Metadata) Payload() map[string]any {
	return map[string]any{
		"text":        m.Text,
		"chapter":     m.Chapter,
		"section":     m.Section,
		"source_url":  m.SourceURL,
		"file_path":   m.OriginPath,
		"chunk_index": m.ChunkIndex,
		"original_id": m.OriginalID,
	}
}

// MetadataFromPayload rebuilds Metadata from a stored payload map. Missing or
// mistyped fields come back as zero values; numeric fields tolerate the
// float64 shape JSON decoding produces.
func MetadataFromPayload(payload map[string]any) Metadata {
	return Metadata{
		Text:       payloadString(payload, "text"),
		Chapter:    payloadString(payload, "chapter"),
		Section:    payloadString(payload, "section"),
		SourceURL:  payloadString(payload, "source_url"),
		OriginPath: payloadString(payload, "file_path"),
		ChunkIndex: payloadInt(payload, "chunk_index"),
		OriginalID: payloadString(payload, "original_id"),
	}
}

func payloadString(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

func payloadInt(payload map[string]any, key string) int {
	switch n := payload[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
