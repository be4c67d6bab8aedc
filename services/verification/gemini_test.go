package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *GeminiVerifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &GeminiVerifier{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: srv.URL,
		Client:  srv.Client(),
	}
}

func modelReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	reply := map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			},
		}},
	}
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestVerifyWasteImage(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query: %s", r.URL.RawQuery)
		}
		var body struct {
			Contents []struct {
				Parts []struct {
					Text       string `json:"text"`
					InlineData *struct {
						MimeType string `json:"mime_type"`
						Data     string `json:"data"`
					} `json:"inline_data"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(body.Contents) != 1 || len(body.Contents[0].Parts) != 2 {
			t.Errorf("expected prompt plus inline image, got %+v", body.Contents)
		}
		modelReply(t, w, `{"wasteType": "plastic", "quantity": "2 kg", "confidence": 0.85}`)
	})

	result, err := v.VerifyWasteImage(context.Background(), []byte("fake-jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("verify waste image: %v", err)
	}
	if result.WasteType != "plastic" || result.Quantity != "2 kg" || result.Confidence != 0.85 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestVerifyWasteImageFencedJSON(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		modelReply(t, w, "```json\n{\"wasteType\": \"glass\", \"quantity\": \"5 liters\", \"confidence\": 0.7}\n```")
	})

	result, err := v.VerifyWasteImage(context.Background(), []byte("fake-jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("verify waste image: %v", err)
	}
	if result.WasteType != "glass" {
		t.Fatalf("expected fenced JSON to parse, got %+v", result)
	}
}

func TestVerifyWasteImageMalformedResponse(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		modelReply(t, w, "I cannot identify any waste in this image.")
	})

	_, err := v.VerifyWasteImage(context.Background(), []byte("fake-jpeg"), "image/jpeg")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestVerifyWasteImageUpstreamFailure(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := v.VerifyWasteImage(context.Background(), []byte("fake-jpeg"), "image/jpeg")
	if !errors.Is(err, ErrVerification) {
		t.Fatalf("expected ErrVerification, got %v", err)
	}
}

func TestVerifyWasteImageMissingKey(t *testing.T) {
	v := &GeminiVerifier{Model: "gemini-1.5-flash", BaseURL: "http://127.0.0.1:0", Client: http.DefaultClient}
	_, err := v.VerifyWasteImage(context.Background(), []byte("fake-jpeg"), "image/jpeg")
	if !errors.Is(err, ErrVerification) {
		t.Fatalf("expected ErrVerification, got %v", err)
	}
}

func TestVerifyCollection(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		modelReply(t, w, `{"wasteTypeMatch": true, "quantityMatch": true, "confidence": 0.9}`)
	})

	result, err := v.VerifyCollection(context.Background(), []byte("fake-jpeg"), "image/jpeg", "plastic", "2 bags")
	if err != nil {
		t.Fatalf("verify collection: %v", err)
	}
	if !result.Accepted() {
		t.Fatalf("expected acceptance, got %+v", result)
	}
}

func TestCollectionResultAccepted(t *testing.T) {
	cases := []struct {
		name   string
		result CollectionResult
		want   bool
	}{
		{"all pass", CollectionResult{true, true, 0.9}, true},
		{"at threshold", CollectionResult{true, true, 0.7}, false},
		{"type mismatch", CollectionResult{false, true, 0.9}, false},
		{"quantity mismatch", CollectionResult{true, false, 0.9}, false},
		{"low confidence", CollectionResult{true, true, 0.5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Accepted(); got != tc.want {
				t.Fatalf("Accepted() = %v, want %v", got, tc.want)
			}
		})
	}
}
