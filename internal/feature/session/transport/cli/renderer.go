// Package cli は端末向けにセッションの表示内容を描画します。
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"calorie_backend/internal/feature/session/domain/entity"
	"calorie_backend/internal/feature/session/usecase"
)

const lowAccuracyWarning = "Low accuracy: the estimate may be unreliable. Try a clearer, top-down photo."

// Render はビューを端末に描画します。
func Render(w io.Writer, v usecase.View) error {
	switch v.State {
	case entity.StateIdle:
		_, err := fmt.Fprintln(w, "No photo selected. Upload a photo or capture one with the camera.")
		return err
	case entity.StateImageSelected:
		_, err := fmt.Fprintf(w, "Photo selected (%s, %d bytes). Ready to analyze.\n", v.Image.ContentType(), len(v.Image.Data))
		return err
	case entity.StateAnalyzing:
		_, err := fmt.Fprintln(w, "Analyzing...")
		return err
	case entity.StateError:
		_, err := fmt.Fprintf(w, "Error: %s\n", v.ErrorMessage)
		return err
	case entity.StateResultReady:
		return renderResult(w, v)
	}
	return fmt.Errorf("unknown state %q", v.State)
}

func renderResult(w io.Writer, v usecase.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INGREDIENT\tGRAMS\tCALORIES\tACCURACY")
	for _, in := range v.Result.Ingredients {
		fmt.Fprintf(tw, "%s\t%.0f g\t%.0f kcal\t%.0f%%\n", in.Name, in.Grams, in.Calories, in.AccuracyPercentage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nTotal: %d kcal\nOverall accuracy: %.0f%%\n", v.TotalCalories, v.Result.OverallAccuracyPercentage); err != nil {
		return err
	}
	if v.LowAccuracy {
		if _, err := fmt.Fprintln(w, lowAccuracyWarning); err != nil {
			return err
		}
	}
	return nil
}
