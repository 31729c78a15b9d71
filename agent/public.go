package agent

import (
	"context"
	"fmt"

	"github.com/pit38/pit38"
	"github.com/pit38/pit38/docs"
	"github.com/pit38/pit38/fidelity"
	"github.com/pit38/pit38/nbp"
	"github.com/pit38/pit38/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is an individual filing a Polish PIT-38 return for gains and dividends on a
			US brokerage account. He primarily wants his computed figures explained, field by field.

			Devise a plan of questions to ask to each experts and come up with the best reponse
			to the user's request. Never invent a figure: every number must come from the Preparer.

			This tool is not tax advice; remind the user of that when he asks for a judgement call.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor returns the search-grounded expert on Polish tax rules.
func NewAdvisor() *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `This is an expert on Polish personal income tax,
		aware of the PIT-38 form, art. 30a and 30b of the income tax act,
		and the NBP exchange-rate rules.
		Ask the Advisor whenever you need recent or grounding information about the rules.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert on Polish personal income tax for capital gains and dividends.
			You leverage Google Search to ground your assertions in the current law and
			official guidance. Always cite which provision an answer rests on.
				`}}},
		},
	}
}

// NewPreparer returns the expert that computes the user's actual figures
// from the exports in dir.
func NewPreparer(dir string) *Expert {
	lib := []Function{reportFunc(dir), openLotsFunc(dir)}

	return &Expert{
		Name: "Preparer",
		Description: `This is the Preparer. He reads the user's brokerage exports and computes
		the PIT-38 figures: proceeds, costs, tax base, dividend income and the foreign tax credits.
		He can also list the purchase lots still open after matching.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a tax preparer in charge of the user's brokerage exports.
				You know how to use the Tools to compute the user's PIT-38 figures.
				You are part of a team of experts; they might ask you questions about
				the user's numbers, pardon their approximative language and figure out
				what they meant.

				Use the available tools to get
				  - the full report for a tax year, with the numbered form fields
				  - the purchase lots still open after matching
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func reportFunc(dir string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Report",
			Description: `Report computes the PIT-38 figures for one tax year from the exports,
			and returns them as a markdown report with the numbered form fields.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"year": {
						Type:        genai.TypeInteger,
						Description: "The tax year to compute, e.g. 2024.",
					},
					"method": {
						Type: genai.TypeString,
						Description: `The lot matching method, "fifo" (default) or "custom".

						` + must(docs.GetTopic("fifo")),
					},
				},
				Required: []string{"year"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of the computed PIT-38 figures.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			year, err := parseYear(args)
			if err != nil {
				return failure(id, "Report", err)
			}
			method := pit38.MethodFIFO
			if s, ok := args["method"].(string); ok && s != "" {
				if method, err = pit38.ParseMethod(s); err != nil {
					return failure(id, "Report", err)
				}
			}

			report, _, warns, err := computeYear(dir, year, method)
			if err != nil {
				return failure(id, "Report", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Report",
				Response: map[string]any{
					"output": renderer.ReportMarkdown(report, warns),
				},
			}
		},
	}
}

func openLotsFunc(dir string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "OpenLots",
			Description: `OpenLots lists the purchase lots still open after FIFO matching,
			the carry-over position for next year.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"year": {
						Type:        genai.TypeInteger,
						Description: "The tax year whose history to match, e.g. 2024.",
					},
				},
				Required: []string{"year"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the open lots and their remaining cost.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			year, err := parseYear(args)
			if err != nil {
				return failure(id, "OpenLots", err)
			}
			_, lots, _, err := computeYear(dir, year, pit38.MethodFIFO)
			if err != nil {
				return failure(id, "OpenLots", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "OpenLots",
				Response: map[string]any{
					"output": renderer.RemainingLotsMarkdown(lots),
				},
			}
		},
	}
}

// computeYear loads the exports and rates and runs the engine, returning
// the report, the open lots and the collected warnings.
func computeYear(dir string, year int, method pit38.Method) (*pit38.Report, []pit38.RemainingLot, *pit38.Warnings, error) {
	history, manifests, err := fidelity.Discover(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	records, err := fidelity.LoadHistory(history...)
	if err != nil {
		return nil, nil, nil, err
	}
	rates, err := nbp.FetchArchives("USD", exportYears(records, year)...)
	if err != nil {
		return nil, nil, nil, err
	}

	warns := &pit38.Warnings{}
	conv := &pit38.Converter{Rates: rates}
	engine := pit38.Engine{Converter: conv}

	var manifest []pit38.LotEntry
	if method == pit38.MethodCustom {
		if manifest, err = fidelity.LoadManifest(manifests...); err != nil {
			return nil, nil, nil, err
		}
	}

	report, err := engine.Compute(records, manifest, method, year, warns)
	if err != nil {
		return nil, nil, nil, err
	}

	var lots []pit38.RemainingLot
	if method == pit38.MethodFIFO {
		txs := engine.Classifier.ClassifyAll(records, nil)
		if _, lots, err = pit38.MatchFIFO(txs, conv); err != nil {
			return nil, nil, nil, err
		}
	}
	return report, lots, warns, nil
}

// exportYears returns the distinct trade years in the history plus the
// requested year, so the rate archives cover every conversion.
func exportYears(records []pit38.TransactionRecord, year int) []int {
	seen := map[int]bool{year: true}
	years := []int{year}
	for _, r := range records {
		y := r.TradeDate.Year()
		if y > 0 && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	return years
}

func parseYear(args map[string]any) (int, error) {
	iyear, ok := args["year"]
	if !ok {
		return 0, fmt.Errorf("argument 'year' is required")
	}
	switch y := iyear.(type) {
	case float64:
		return int(y), nil
	case int:
		return y, nil
	case string:
		var year int
		if _, err := fmt.Sscanf(y, "%d", &year); err != nil {
			return 0, fmt.Errorf("argument 'year' must be a year got %q", y)
		}
		return year, nil
	default:
		return 0, fmt.Errorf("argument 'year' is not a number as expected but %T", iyear)
	}
}
