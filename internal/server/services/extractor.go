package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/dmitrijs2005/mealbot/internal/logging"
	"github.com/dmitrijs2005/mealbot/internal/server/models"
	"github.com/tidwall/gjson"
)

const extractionPrompt = `
Your task is to act as a nutrition analysis API.
Analyze the meal described in the text and provide the output ONLY in a valid JSON format.
Your entire response must be a single JSON object. Do not include any text, explanations, greetings, or markdown formatting like ` + "```json" + ` before or after the JSON object.

The JSON object must have a single key "items", which is a list.
Each object in the "items" list must have the following keys: "food", "quantity", "calories", "protein_g", "carbs_g", and "fat_g".

Analyze this text:
`

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

type GeminiExtractor struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
	logger  logging.Logger
}

func NewGeminiExtractor(baseURL, model, apiKey string, timeout time.Duration, logger logging.Logger) *GeminiExtractor {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &GeminiExtractor{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		logger:  logger.With("module", "extractor"),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

// Extract asks the model for a structured breakdown of the meal in text.
// An empty list with a nil error means the model understood the request but
// found no food in it.
func (e *GeminiExtractor) Extract(ctx context.Context, text string) ([]models.MealItem, error) {
	raw, err := e.generate(ctx, extractionPrompt+text)
	if err != nil {
		e.logger.Warn(ctx, "gemini call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionUnavailable, err)
	}

	items, err := ParseMealItems(raw)
	if err != nil {
		e.logger.Warn(ctx, "gemini response not usable", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionUnavailable, err)
	}
	return items, nil
}

func (e *GeminiExtractor) generate(ctx context.Context, prompt string) (string, error) {
	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	body.GenerationConfig.Temperature = 0

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		e.baseURL, url.PathEscape(e.model), url.QueryEscape(e.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, gjson.GetBytes(data, "error.message").String())
	}

	text := gjson.GetBytes(data, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("gemini response has no text candidate")
	}
	return text.String(), nil
}

// ParseMealItems pulls the first JSON object out of a model reply and reads
// its "items" list. Items without a food name are skipped; numeric fields may
// be numbers, numeric strings or null, and negative estimates become zero.
func ParseMealItems(reply string) ([]models.MealItem, error) {
	obj := jsonObjectRe.FindString(reply)
	if obj == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}
	if !gjson.Valid(obj) {
		return nil, fmt.Errorf("malformed JSON in reply")
	}

	list := gjson.Get(obj, "items")
	if !list.Exists() || !list.IsArray() {
		return nil, fmt.Errorf(`reply has no "items" list`)
	}

	items := make([]models.MealItem, 0)
	for _, it := range list.Array() {
		food := strings.TrimSpace(it.Get("food").String())
		if food == "" {
			continue
		}
		items = append(items, models.MealItem{
			Food:     food,
			Quantity: strings.TrimSpace(it.Get("quantity").String()),
			Calories: estimate(it.Get("calories")),
			ProteinG: estimate(it.Get("protein_g")),
			CarbsG:   estimate(it.Get("carbs_g")),
			FatG:     estimate(it.Get("fat_g")),
		})
	}
	return items, nil
}

func estimate(r gjson.Result) *float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	if v < 0 {
		v = 0
	}
	return &v
}
