package interaction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
)

// Checker asks an LLM whether a newly added medication is safe to take
// together with each medication already prescribed.
type Checker struct {
	llmClient gollem.LLMClient
}

var _ interfaces.InteractionChecker = &Checker{}

// New creates a new interaction checker with the provided LLM client
func New(llmClient gollem.LLMClient) (*Checker, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Checker{llmClient: llmClient}, nil
}

type llmResponse struct {
	Pairs []struct {
		Existing string `json:"existing"`
		Safe     bool   `json:"safe"`
		Reason   string `json:"reason"`
	} `json:"pairs"`
}

// Check returns one result per existing prescription, in the same order.
// Existing medications the model does not mention are reported as safe.
func (c *Checker) Check(ctx context.Context, existing []*model.Prescription, newMed *model.Prescription) ([]*model.Interaction, error) {
	if len(existing) == 0 {
		return nil, nil
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(existing, newMed)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty response from LLM")
	}

	var llmResp llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &llmResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}

	verdicts := make(map[string]int, len(llmResp.Pairs))
	for i, p := range llmResp.Pairs {
		verdicts[strings.ToLower(strings.TrimSpace(p.Existing))] = i
	}

	results := make([]*model.Interaction, 0, len(existing))
	for _, p := range existing {
		ia := &model.Interaction{Existing: p.Name, New: newMed.Name, Safe: true}
		if i, ok := verdicts[strings.ToLower(strings.TrimSpace(p.Name))]; ok {
			ia.Safe = llmResp.Pairs[i].Safe
			ia.Reason = llmResp.Pairs[i].Reason
		}
		results = append(results, ia)
	}
	return results, nil
}

const systemPrompt = `You are a pharmacology assistant checking drug interactions.
For every medication the patient already takes, decide whether it is safe to take together with the new medication.
Answer "safe": false only when the combination should be avoided.
Keep each reason to one short sentence.`

func buildUserPrompt(existing []*model.Prescription, newMed *model.Prescription) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New medication: %s %s\n\n", newMed.Name, newMed.Dosage)
	sb.WriteString("Medications currently taken:\n")
	for _, p := range existing {
		fmt.Fprintf(&sb, "- %s %s (%s)\n", p.Name, p.Dosage, p.Frequency)
	}
	return sb.String()
}

func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "InteractionCheckResponse",
		Description: "Safety of combining the new medication with each current one",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"pairs": {
				Type:        gollem.TypeArray,
				Description: "One entry per medication currently taken",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"existing": {
							Type:        gollem.TypeString,
							Description: "Name of the medication currently taken",
							Required:    true,
						},
						"safe": {
							Type:        gollem.TypeBoolean,
							Description: "Whether it is safe to take together with the new medication",
							Required:    true,
						},
						"reason": {
							Type:        gollem.TypeString,
							Description: "Short explanation",
						},
					},
				},
			},
		},
	}
}
