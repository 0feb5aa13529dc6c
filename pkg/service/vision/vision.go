// Package vision reads medication and prescription photos with a Gemini model.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/service/media"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for image understanding
const DefaultModel = "gemini-2.5-flash"

// ContentGenerator is the subset of genai.Models the analyzers call
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client holds the model connection shared by Verifier and Extractor
type Client struct {
	gen   ContentGenerator
	model string
}

type Option func(*Client)

func WithModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.model = name
		}
	}
}

// New connects to the Gemini API with an API key
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("Gemini API key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GenAI client")
	}
	return NewWithGenerator(gc.Models, opts...), nil
}

// NewWithGenerator wraps an existing generator
func NewWithGenerator(gen ContentGenerator, opts ...Option) *Client {
	c := &Client{gen: gen, model: DefaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateJSON sends one image with instructions and decodes the JSON reply into dst
func (c *Client) generateJSON(ctx context.Context, photo *model.Photo, system, prompt string, schema *genai.Schema, dst any) error {
	img, err := media.Normalize(photo.Data)
	if err != nil {
		return goerr.Wrap(err, "failed to prepare image")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img, media.NormalizedContentType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
		Temperature:       genai.Ptr[float32](0),
	}

	resp, err := c.gen.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return classifyError(ctx, err, c.model)
	}

	text := resp.Text()
	if text == "" {
		return goerr.Wrap(interfaces.ErrServiceUnavailable, "empty response from model", goerr.V("model", c.model))
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return goerr.Wrap(interfaces.ErrServiceUnavailable, "malformed response from model",
			goerr.V("model", c.model),
			goerr.V("cause", err.Error()))
	}
	return nil
}

func classifyError(ctx context.Context, err error, modelName string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return goerr.Wrap(interfaces.ErrTimeout, err.Error(), goerr.V("model", modelName))
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return goerr.Wrap(interfaces.ErrServiceUnavailable, apiErr.Message,
			goerr.V("model", modelName),
			goerr.V("code", apiErr.Code),
			goerr.V("status", apiErr.Status))
	}
	return goerr.Wrap(interfaces.ErrServiceUnavailable, err.Error(), goerr.V("model", modelName))
}

// Verifier identifies the medication in a photo and compares it with the
// prescriptions. The reply is mapped onto the fixed outcome classes with
// model.Classify.
type Verifier struct {
	client *Client
}

var _ interfaces.Verifier = &Verifier{}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

const verifySystemPrompt = `You check photos of medication against a patient's prescriptions.
Identify the medication name and the dosage printed on the pill, bottle or package.
Pick the prescription the photo most likely corresponds to.
Answer only with the requested JSON.`

type verifyResponse struct {
	PrescriptionIndex int     `json:"prescription_index"`
	MedicationName    string  `json:"medication_name"`
	Dosage            string  `json:"dosage"`
	Confidence        float64 `json:"confidence"`
}

var verifySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"prescription_index": {Type: genai.TypeInteger, Description: "Zero-based index of the best matching prescription"},
		"medication_name":    {Type: genai.TypeString, Description: "Medication name read from the photo, empty if unreadable"},
		"dosage":             {Type: genai.TypeString, Description: "Dosage read from the photo, empty if unreadable"},
		"confidence":         {Type: genai.TypeNumber, Description: "Confidence between 0 and 1"},
	},
	Required: []string{"prescription_index", "medication_name", "dosage", "confidence"},
}

func (v *Verifier) Verify(ctx context.Context, photo *model.Photo, prescriptions []*model.Prescription) (*model.Verdict, error) {
	if len(prescriptions) == 0 {
		return model.NoPrescriptionsVerdict(), nil
	}

	var b strings.Builder
	b.WriteString("Prescriptions:\n")
	for i, p := range prescriptions {
		fmt.Fprintf(&b, "%d. name=%q dosage=%q frequency=%q\n", i, p.Name, p.Dosage, p.Frequency)
	}

	var resp verifyResponse
	if err := v.client.generateJSON(ctx, photo, verifySystemPrompt, b.String(), verifySchema, &resp); err != nil {
		return nil, err
	}

	target := pickTarget(prescriptions, resp)
	return model.Classify(target, strings.TrimSpace(resp.MedicationName), strings.TrimSpace(resp.Dosage), resp.Confidence), nil
}

// pickTarget trusts the model's index when valid, then falls back to a name match
func pickTarget(prescriptions []*model.Prescription, resp verifyResponse) *model.Prescription {
	if resp.PrescriptionIndex >= 0 && resp.PrescriptionIndex < len(prescriptions) {
		return prescriptions[resp.PrescriptionIndex]
	}
	for _, p := range prescriptions {
		if model.SameValue(p.Name, resp.MedicationName) {
			return p
		}
	}
	return prescriptions[0]
}

// Extractor reads prescription fields from a photo of a prescription label
type Extractor struct {
	client *Client
}

var _ interfaces.Extractor = &Extractor{}

func NewExtractor(client *Client) *Extractor {
	return &Extractor{client: client}
}

const extractSystemPrompt = `You read prescription labels.
Extract the medication name, dosage, frequency and any instructions.
Leave a field empty when it is not printed on the label.`

var extractSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":         {Type: genai.TypeString},
		"dosage":       {Type: genai.TypeString},
		"frequency":    {Type: genai.TypeString},
		"instructions": {Type: genai.TypeString},
	},
	Required: []string{"name", "dosage", "frequency", "instructions"},
}

func (e *Extractor) Extract(ctx context.Context, photo *model.Photo) (*model.ExtractedPrescription, error) {
	var out model.ExtractedPrescription
	if err := e.client.generateJSON(ctx, photo, extractSystemPrompt, "Extract the prescription.", extractSchema, &out); err != nil {
		return nil, err
	}
	out.Name = strings.TrimSpace(out.Name)
	out.Dosage = strings.TrimSpace(out.Dosage)
	out.Frequency = strings.TrimSpace(out.Frequency)
	out.Instructions = strings.TrimSpace(out.Instructions)
	return &out, nil
}
