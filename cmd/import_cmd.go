package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"go_vocab_study/internal/middleware"
)

// importCmd はファイルから単語をマスター単語リストに一括追加します (POST /api/words/import と同じ処理)
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import words from a JSON, CSV, XLSX or XLS file",
	Long: `Append the words in <file> to the master word list.

The format is chosen from the file extension (.json, .csv, .xlsx, .xls).
New words get sequential IDs after the current maximum, and the list is
saved once; nothing is written when the file cannot be parsed.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := middleware.WithLogger(cmd.Context(), logger)
	words, err := a.words.ImportWords(ctx, content, filepath.Base(path))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d words into %s\n", len(words), cfg.Storage.MasterWordsFile)
	for _, w := range words {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d\t%s\t%s\t%s\n", w.ID, w.Kanji, w.English, w.Group)
	}
	return nil
}
