package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/custody/internal/core/custody/scenario"
	"github.com/weisyn/custody/internal/core/custody/venue"
)

var simulateFlags struct {
	venues []string
}

// simulateCmd 在内存部署上演练参考场景
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "在内存部署上演练参考场景",
	Long:  "针对每种场所形态执行：正常存取、场所暂停回退、收益提取，并输出观测值与期望值对照",
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, kind := range simulateFlags.venues {
			results := scenario.NewRunner(kind, nil).RunAll(context.Background())
			pterm.DefaultSection.Printf("场所形态: %s", kind)
			if err := renderResults(results); err != nil {
				return err
			}
			for _, r := range results {
				if !r.Passed() {
					failed++
				}
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d 个场景未通过", failed)
		}
		pterm.Success.Println("全部场景通过")
		return nil
	},
}

func renderResults(results []scenario.Result) error {
	data := [][]string{{"场景", "观测项", "期望", "实际", "结果"}}
	for _, r := range results {
		if r.Err != nil {
			data = append(data, []string{r.Name, "-", "-", r.Err.Error(), mark(false)})
			continue
		}
		for _, c := range r.Checks {
			data = append(data, []string{r.Name, c.Name, c.Expected, c.Actual, mark(c.Passed())})
		}
	}
	return pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Render()
}

func mark(ok bool) string {
	if ok {
		return pterm.Green("通过")
	}
	return pterm.Red("失败")
}

func init() {
	simulateCmd.Flags().StringSliceVar(&simulateFlags.venues, "venue",
		[]string{venue.KindPool, venue.KindRegistry, venue.KindComet}, "场所形态: pool|registry|comet，可重复")
}
