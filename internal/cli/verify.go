package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/provenance/internal/corpus"
	"github.com/ppiankov/provenance/internal/model"
	"github.com/ppiankov/provenance/internal/validate"
)

// ErrUnsupported marks a verification that completed with a failing
// outcome. It is a content result, not an infrastructure failure.
var ErrUnsupported = errors.New("response is not supported by the reference corpus")

var (
	claim       string
	method      string
	outJSON     string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	judgeType   string
	judgeModel  string
	embedType   string
	embedModel  string
	qdrantHost  string
	qdrantPort  int
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <topic>",
	Short: "Verify a response against the Wikipedia article for a topic",
	Long: `Verify checks whether a response is supported by a reference corpus:
- Resolve the topic to a Wikipedia article
- Chunk the article and index the passages in Qdrant
- Retrieve the closest passages for each sentence (or the full text)
- Ask an LLM judge for a Yes/No entailment verdict

The response is read from --claim, or from stdin when the flag is empty.

Example:
  provenance verify "Apple Inc." --claim "Apple was founded in 1976."
  echo "Apple was founded in 1976." | provenance verify "Apple Inc."
  provenance verify "Apple Inc." --claim "..." --method full --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Verification flags
	verifyCmd.Flags().StringVar(&claim, "claim", "", "response to verify (default: read from stdin)")
	verifyCmd.Flags().StringVar(&method, "method", model.MethodSentence, "validation granularity: sentence or full")
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")

	// HTTP flags
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().StringVar(&userAgent, "ua", "Provenance/0.1 (+https://github.com/ppiankov/provenance)", "HTTP User-Agent")
	verifyCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read per API call")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page cache (force fresh fetch)")

	// Backend flags
	verifyCmd.Flags().StringVar(&judgeType, "judge", "openai", "judge provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&judgeModel, "judge-model", "", "judge model name (provider default when empty)")
	verifyCmd.Flags().StringVar(&embedType, "embedder", "openai", "embedding provider (openai, ollama)")
	verifyCmd.Flags().StringVar(&embedModel, "embedder-model", "", "embedding model name (provider default when empty)")
	verifyCmd.Flags().StringVar(&qdrantHost, "qdrant-host", "localhost", "Qdrant gRPC host")
	verifyCmd.Flags().IntVar(&qdrantPort, "qdrant-port", 6334, "Qdrant gRPC port")
}

func runVerify(cmd *cobra.Command, args []string) error {
	topic := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	value, err := readClaim()
	if err != nil {
		return err
	}

	cfg, err := buildConfig(topic)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Topic: %s\n", topic)
		fmt.Fprintf(os.Stderr, "Method: %s\n", cfg.ValidationMethod)
		fmt.Fprintf(os.Stderr, "Judge: %s/%s\n", cfg.Judge.Provider, cfg.Judge.Model)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	verifier, err := validate.NewByName(ctx, validate.Name, cfg)
	if err != nil {
		var notFound *corpus.NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("no reference corpus: %w", err)
		}
		return fmt.Errorf("build verifier: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Reference page: %s\n", verifier.Document().Title)
		fmt.Fprintf(os.Stderr, "Namespace: %s\n", verifier.Namespace())
		fmt.Fprintln(os.Stderr)
	}

	outcome, err := verifier.Validate(ctx, value, nil)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	report := model.Report{
		Topic:      topic,
		PageTitle:  verifier.Document().Title,
		Namespace:  verifier.Namespace(),
		Method:     cfg.ValidationMethod,
		VerifiedAt: time.Now().UTC(),
		Claim:      value,
		Outcome:    outcome,
		Warnings:   verifier.Warnings(),
		Judge: model.JudgeInfo{
			Provider: cfg.Judge.Provider,
			Model:    cfg.Judge.Model,
		},
	}

	if outJSON != "" {
		if err := writeReport(report, outJSON); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Report written: %s\n", outJSON)
		}
	}

	printOutcome(outcome)
	if !outcome.Passed {
		return ErrUnsupported
	}
	return nil
}

// readClaim takes the response from --claim, falling back to stdin
func readClaim() (string, error) {
	if claim != "" {
		return claim, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read claim from stdin: %w", err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("no claim provided: use --claim or pipe the response on stdin")
	}
	return value, nil
}

// buildConfig assembles configuration from flags and environment keys
func buildConfig(topic string) (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Topic = topic
	cfg.ValidationMethod = method
	cfg.Wiki.Timeout = timeout
	cfg.Wiki.UserAgent = userAgent
	cfg.Wiki.MaxBodyBytes = maxBytes
	cfg.Cache.Enabled = !noCache

	cfg.Index.QdrantHost = qdrantHost
	cfg.Index.QdrantPort = qdrantPort
	cfg.Index.Embedder.Provider = embedType
	cfg.Index.Embedder.Model = embedModel

	cfg.Judge.Provider = judgeType
	if judgeModel != "" {
		cfg.Judge.Model = judgeModel
	}

	// Get API keys from environment
	switch judgeType {
	case "openai":
		cfg.Judge.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Judge.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.Judge.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.Judge.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Judge.BaseURL = baseURL
		}
	}

	switch embedType {
	case "openai":
		cfg.Index.Embedder.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Index.Embedder.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Index.Embedder.BaseURL = baseURL
		}
	}

	return cfg, nil
}

func printOutcome(outcome model.Outcome) {
	if outcome.Passed {
		fmt.Println("PASS: the response is supported by the reference corpus")
		return
	}

	fmt.Println("FAIL:", outcome.ErrorMessage)
	if outcome.FixValue != "" {
		fmt.Println()
		fmt.Println("Supported content:")
		fmt.Println(outcome.FixValue)
	}
}

func writeReport(report model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
