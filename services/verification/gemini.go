package verification

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/greenloophq/greenloop/config"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

const reportPrompt = `You are an expert in waste management and recycling. Analyze this image and provide:
1. The type of waste (e.g., plastic, paper, glass, metal, organic)
2. An estimate of the quantity or amount (in kg or liters)
3. Your confidence level in this assessment (as a percentage)

Respond in JSON format like this:
{
  "wasteType": "type of waste",
  "quantity": "estimated quantity with unit",
  "confidence": confidence level as a number between 0 and 1
}`

const collectionPromptFmt = `You are an expert in waste management and recycling. Analyze this image and provide:
1. Confirm if the waste type matches: %s
2. Estimate if the quantity matches: %s
3. Your confidence level in this assessment (as a percentage)

Respond in JSON format like this:
{
  "wasteTypeMatch": true/false,
  "quantityMatch": true/false,
  "confidence": confidence level as a number between 0 and 1
}`

// GeminiVerifier calls the Gemini generateContent endpoint.
type GeminiVerifier struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

func NewGeminiVerifier(conf *config.Config) *GeminiVerifier {
	return &GeminiVerifier{
		APIKey:  conf.GeminiApiKey,
		Model:   conf.GeminiModel,
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiVerifier) VerifyWasteImage(ctx context.Context, image []byte, mimeType string) (*ReportResult, error) {
	text, err := g.generate(ctx, reportPrompt, image, mimeType)
	if err != nil {
		return nil, err
	}

	var result ReportResult
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &result); err != nil {
		log.Printf("verification: failed to parse model response: %q", text)
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	if result.WasteType == "" || result.Quantity == "" {
		return nil, ErrParse
	}
	return &result, nil
}

func (g *GeminiVerifier) VerifyCollection(ctx context.Context, image []byte, mimeType string, wasteType, amount string) (*CollectionResult, error) {
	prompt := fmt.Sprintf(collectionPromptFmt, wasteType, amount)
	text, err := g.generate(ctx, prompt, image, mimeType)
	if err != nil {
		return nil, err
	}

	var result CollectionResult
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &result); err != nil {
		log.Printf("verification: failed to parse model response: %q", text)
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	return &result, nil
}

// generate performs a single generateContent call and returns the first
// candidate's text.
func (g *GeminiVerifier) generate(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if g.APIKey == "" {
		return "", errors.Wrap(ErrVerification, "gemini api key is not configured")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	body := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(ErrVerification, err.Error())
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(ErrVerification, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		log.Printf("verification: upstream error: %v", err)
		return "", errors.Wrap(ErrVerification, err.Error())
	}
	defer resp.Body.Close()

	slurp, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		log.Printf("verification: model returned status %d: %s", resp.StatusCode, string(slurp))
		return "", errors.Wrapf(ErrVerification, "status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(slurp, &parsed); err != nil {
		return "", errors.Wrap(ErrParse, err.Error())
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.Wrap(ErrParse, "no candidates in response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFences tolerates markdown fencing around the JSON object.
func stripCodeFences(text string) string {
	replacer := strings.NewReplacer("```json", "", "```", "")
	return strings.TrimSpace(replacer.Replace(text))
}
