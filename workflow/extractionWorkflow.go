package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
)

// RawExtractedLine is one line as produced by the external extraction
// service. Dates arrive as strings; parsing happens on import.
type RawExtractedLine struct {
	Worker     string   `json:"worker"`
	WorkDate   string   `json:"work_date"`
	Project    string   `json:"project"`
	Hours      float64  `json:"hours"`
	Confidence *float64 `json:"extraction_confidence"`
	RawSnippet string   `json:"raw_text_snippet"`
}

// ExtractionFeed is the external OCR/LLM extraction collaborator. The core
// only consumes its output.
type ExtractionFeed interface {
	ExtractLines(ctx context.Context, docID string, docType models.DocumentType, filePath string) ([]RawExtractedLine, error)
}

// ImportExtraction pulls the document's lines from the extraction feed and
// replaces the stored set atomically. A feed failure or malformed line
// surfaces as an upstream error and leaves the document in its prior state.
func ImportExtraction(ctx context.Context, feed ExtractionFeed, docID string) (int, error) {
	logger := config.GetLogger()

	doc, err := models.GetDocument(ctx, docID)
	if err != nil {
		return 0, err
	}

	raw, err := feed.ExtractLines(ctx, doc.ID, doc.DocType, doc.FilePath)
	if err != nil {
		config.LogError(logger, "extractionWorkflow.go", "ImportExtraction", "extraction feed", docID, err)
		return 0, utils.UpstreamError(err)
	}

	lines := make([]models.NewExtractedLine, 0, len(raw))
	for i, r := range raw {
		workDate, err := time.Parse("2006-01-02", r.WorkDate)
		if err != nil {
			return 0, utils.UpstreamError(fmt.Errorf("line %d: bad work_date %q", i+1, r.WorkDate))
		}
		if r.Hours < 0 {
			return 0, utils.UpstreamError(fmt.Errorf("line %d: negative hours %v", i+1, r.Hours))
		}
		if r.Confidence != nil && (*r.Confidence < 0 || *r.Confidence > 1) {
			return 0, utils.UpstreamError(fmt.Errorf("line %d: confidence %v out of range", i+1, *r.Confidence))
		}
		lines = append(lines, models.NewExtractedLine{
			Worker:     r.Worker,
			WorkDate:   workDate,
			Project:    r.Project,
			Hours:      utils.RoundHours(decimal.NewFromFloat(r.Hours)),
			Confidence: r.Confidence,
			RawSnippet: r.RawSnippet,
		})
	}

	return models.ReplaceExtractedLines(ctx, docID, lines)
}

// HTTPExtractionFeed calls the extraction service over HTTP.
type HTTPExtractionFeed struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPExtractionFeed(baseURL string) *HTTPExtractionFeed {
	return &HTTPExtractionFeed{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type extractRequest struct {
	DocID    string `json:"doc_id"`
	DocType  string `json:"doc_type"`
	FilePath string `json:"file_path"`
}

type extractResponse struct {
	Lines []RawExtractedLine `json:"lines"`
}

func (f *HTTPExtractionFeed) ExtractLines(ctx context.Context, docID string, docType models.DocumentType, filePath string) ([]RawExtractedLine, error) {
	body, err := json.Marshal(extractRequest{
		DocID:    docID,
		DocType:  string(docType),
		FilePath: filePath,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned %s", resp.Status)
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Lines, nil
}
