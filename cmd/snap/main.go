package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"calorie_backend/internal/app/di"
	analysisusecase "calorie_backend/internal/feature/analysis/usecase"
	"calorie_backend/internal/feature/capture/adapters/camera"
	"calorie_backend/internal/feature/capture/adapters/shutter"
	captureusecase "calorie_backend/internal/feature/capture/usecase"
	guidance "calorie_backend/internal/feature/guidance/domain"
	journaladapters "calorie_backend/internal/feature/journal/adapters"
	journalusecase "calorie_backend/internal/feature/journal/usecase"
	sessionadapters "calorie_backend/internal/feature/session/adapters"
	"calorie_backend/internal/feature/session/transport/cli"
	sessionusecase "calorie_backend/internal/feature/session/usecase"
	infradb "calorie_backend/internal/platform/db"
	"calorie_backend/internal/shared/terminal"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	once      bool
	save      bool
	noPreview bool
	verbose   bool
	limit     int
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:          "snap",
		Short:        "Estimate the calories of a meal from a photo",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	analyze := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a photo file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, loop *cli.Loop, id string) error {
				return loop.SelectFile(ctx, id, args[0])
			})
		},
	}

	capture := &cobra.Command{
		Use:   "camera",
		Short: "Capture a photo with the camera and analyze it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, loop *cli.Loop, id string) error {
				return loop.Capture(ctx, id)
			})
		},
	}
	capture.Flags().BoolVar(&opts.noPreview, "no-preview", false, "capture on Enter without opening a preview window")

	for _, c := range []*cobra.Command{analyze, capture} {
		c.Flags().BoolVar(&opts.once, "once", false, "print the result and exit")
		c.Flags().BoolVar(&opts.save, "save", false, "save the result to the journal")
	}

	tips := &cobra.Command{
		Use:   "tips",
		Short: "Show tips for taking photos that analyze well",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTips(cmd)
		},
	}

	journal := &cobra.Command{
		Use:   "journal",
		Short: "List saved results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listJournal(cmd, opts.limit)
		},
	}
	journal.Flags().IntVarP(&opts.limit, "limit", "n", journalusecase.DefaultListLimit, "number of entries to show")

	root.AddCommand(analyze, capture, tips, journal)
	return root
}

// run は1回分の解析を行い、--onceでなければ対話ループに入ります。
func run(cmd *cobra.Command, opts options, first func(ctx context.Context, loop *cli.Loop, id string) error) error {
	ctx := cmd.Context()

	inference, err := di.NewInferenceClient(ctx)
	if err != nil {
		return err
	}

	camCfg, err := di.NewCameraConfig()
	if err != nil {
		return err
	}
	// 標準入力はシャッターと対話ループで同じLinesを共有する
	lines := terminal.NewLines(cmd.InOrStdin())
	var sh captureusecase.Shutter = camera.NewPreviewShutter("snap")
	if opts.noPreview {
		sh = shutter.NewTerminal(lines, cmd.OutOrStdout())
	}
	capture := captureusecase.NewCaptureUsecase(camera.NewGoCVOpener(), sh, camCfg)

	// 端末では1プロセス1セッション。状態はメモリ上にのみ持つ
	sessionUC := sessionusecase.NewSessionUsecase(
		sessionadapters.NewSessionMemory(0),
		analysisusecase.NewAnalysisUsecase(inference),
		capture,
	)
	defer sessionUC.Wait()

	s, err := sessionUC.Create(ctx)
	if err != nil {
		return err
	}

	var saver cli.JournalSaver
	db, err := openJournalDB()
	if err != nil {
		slog.Warn("journal unavailable", "error", err)
	} else {
		defer closeDB(db)
		saver = journalusecase.NewJournalUsecase(journaladapters.NewJournalRepository(db), sessionUC)
	}

	loop := cli.NewLoop(sessionUC, capture, saver, lines, cmd.OutOrStdout())
	if err := first(ctx, loop, s.ID); err != nil {
		return err
	}
	if opts.save {
		if err := loop.Save(ctx, s.ID); err != nil {
			return err
		}
	}
	if opts.once {
		return nil
	}
	return loop.Run(ctx, s.ID)
}

func printTips(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n%s\n\n", guidance.Heading, guidance.Subheading)
	for _, t := range guidance.Tips() {
		fmt.Fprintf(w, "* %s\n  %s\n", t.Title, t.Body)
	}
	_, err := fmt.Fprintf(w, "\nImportant Reminder: %s\n", guidance.Reminder)
	return err
}

func listJournal(cmd *cobra.Command, limit int) error {
	db, err := openJournalDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	uc := journalusecase.NewJournalUsecase(journaladapters.NewJournalRepository(db), nil)
	entries, err := uc.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "The journal is empty.")
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SAVED\tCALORIES\tACCURACY\tINGREDIENTS")
	for _, e := range entries {
		names := make([]string, 0, len(e.Ingredients))
		for _, in := range e.Ingredients {
			names = append(names, in.Name)
		}
		fmt.Fprintf(tw, "%s\t%d kcal\t%.0f%%\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Result().RoundedTotalCalories(), e.OverallAccuracyPercentage, strings.Join(names, ", "))
	}
	return tw.Flush()
}

func openJournalDB() (*gorm.DB, error) {
	return infradb.Open(infradb.LoadConfigFromEnv(), journaladapters.Models()...)
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Println("[ERROR] Failed to close database:", err)
	}
}
