package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/cogfs/cogfs/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cogfs configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a cogfs.yaml configuration file",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	fmt.Println("Let's configure cogfs.")
	fmt.Println()

	cfg := config.DefaultConfig()

	embedProvider := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"ollama", "openai", "tei"},
	}
	_, providerStr, err := embedProvider.Run()
	if err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	cfg.Embedding.Provider = config.EmbeddingProviderType(providerStr)

	urlPrompt := promptui.Prompt{
		Label:   "Embedding backend URL",
		Default: cfg.Embedding.URL,
	}
	cfg.Embedding.URL, err = urlPrompt.Run()
	if err != nil {
		return fmt.Errorf("config init: %w", err)
	}

	modelPrompt := promptui.Prompt{
		Label:   "Embedding model name",
		Default: cfg.Embedding.Model,
	}
	cfg.Embedding.Model, err = modelPrompt.Run()
	if err != nil {
		return fmt.Errorf("config init: %w", err)
	}

	dimsPrompt := promptui.Prompt{
		Label:   "Embedding dimensions",
		Default: strconv.Itoa(cfg.Embedding.Dimensions),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	}
	dimsStr, err := dimsPrompt.Run()
	if err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	cfg.Embedding.Dimensions, _ = strconv.Atoi(dimsStr)

	llmProvider := promptui.Select{
		Label: "Enable LLM-assisted tagging?",
		Items: []string{"none", "ollama", "openai"},
	}
	_, llmStr, err := llmProvider.Run()
	if err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	cfg.LLM.Provider = config.LLMProviderType(llmStr)

	if cfg.LLM.Provider != config.LLMProviderNone {
		modelPrompt := promptui.Prompt{Label: "LLM model name"}
		cfg.LLM.Model, err = modelPrompt.Run()
		if err != nil {
			return fmt.Errorf("config init: %w", err)
		}
	}

	configPath := "cogfs.yaml"
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("config init: %w", err)
	}

	if envVar := config.APIKeyEnvVar(string(cfg.Embedding.Provider)); envVar != "" {
		fmt.Printf("\nNote: set %s in your environment before scanning.\n", envVar)
	}
	if envVar := config.APIKeyEnvVar(string(cfg.LLM.Provider)); envVar != "" {
		fmt.Printf("Note: set %s in your environment before using LLM tagging.\n", envVar)
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		abs = configPath
	}
	fmt.Printf("\nConfiguration saved to %s\n", abs)
	return nil
}
