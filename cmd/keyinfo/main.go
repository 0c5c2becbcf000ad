package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	keyinfo "github.com/riverfjs/keyinfo-go"
	"github.com/riverfjs/keyinfo-go/file"
	"github.com/riverfjs/keyinfo-go/internal/config"
	"github.com/riverfjs/keyinfo-go/internal/ui"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "keyinfo",
	Short: "Key information outline for markdown documents",
	Long: `Extracts titles, bold, italic, highlights, remarks and tags from
markdown documents and shows them as one ordered list.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the key information of a markdown file",
	Long: `Print the fused key information of a markdown file, or of stdin
when no file or "-" is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var viewCmd = &cobra.Command{
	Use:   "view <doc>",
	Short: "Browse the key information of a document interactively",
	Long: `Open an interactive list of the key information of <doc>, a path
relative to the document directory without the .md extension. The list
refreshes whenever the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documents in the document directory",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(extractCmd, viewCmd, listCmd)

	rootCmd.PersistentFlags().StringP("dir", "d", "", "Document directory")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to stderr")
	extractCmd.Flags().StringP("format", "f", "", "Output format: text, json")

	viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("format", extractCmd.Flags().Lookup("format"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	items := keyinfo.Extract(string(data), keyinfo.WithConfig(config.C.Engine(os.Stderr)))
	return writeItems(cmd.OutOrStdout(), items, config.C.Format)
}

func writeItems(w io.Writer, items []keyinfo.Item, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if items == nil {
			items = []keyinfo.Item{}
		}
		return enc.Encode(items)
	case "text", "":
		for _, it := range items {
			if _, err := fmt.Fprintf(w, "%-9s %-8s %s\n", it.Type, it.BlockID, it.Label()); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}

func runView(cmd *cobra.Command, args []string) error {
	src := file.NewSource(config.GetDir())
	docID := strings.TrimSuffix(args[0], file.Ext)
	path, err := src.Path(docID)
	if err != nil {
		return err
	}

	// 监听所在目录，编辑器的原子保存会替换文件本身
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	styles := ui.DefaultStyles()
	styles.LoadFromConfig(config.C)

	// 调试日志写到标准错误会破坏全屏界面
	return ui.Run(ui.Options{
		Source:  src,
		DocID:   docID,
		Config:  config.C.Engine(nil),
		Styles:  styles,
		Watcher: watcher,
	})
}

func runList(cmd *cobra.Command, args []string) error {
	ids, err := file.NewSource(config.GetDir()).List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
