package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/daryltucker/sd-testgen/internal/model"
)

// RunnerScript is the downstream script that consumes the generated plan.
const RunnerScript = "run_universal_tests.sh"

// ComparisonResources are the uniform comparison-mode settings shown to the user.
type ComparisonResources struct {
	MemoryRequest string
	MemoryLimit   string
	Timeout       int
}

type styles struct {
	heading lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
}

// Styles are bound to the destination writer so non-terminals get plain text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("82")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("220")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// PrintBanner shows the selected mode before generation starts.
func PrintBanner(w io.Writer, mode model.Mode, cmp ComparisonResources) {
	s := newStyles(w)
	fmt.Fprintln(w, s.heading.Render("🎯 Selected test mode: "+string(mode)))
	fmt.Fprintln(w, "📝 Mode description: "+mode.Description())

	if mode == model.ModeComparison {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.heading.Render("💡 Comparison mode memory sizing:"))
		fmt.Fprintln(w, "   16GB CPU memory hosts: --comparison-memory-request 12Gi --comparison-memory-limit 15Gi (default)")
		fmt.Fprintln(w, "   32GB CPU memory hosts: --comparison-memory-request 24Gi --comparison-memory-limit 30Gi")
		fmt.Fprintln(w, "   Conservative (other workloads present): --comparison-memory-request 8Gi --comparison-memory-limit 12Gi")
		fmt.Fprintf(w, "   Current: %s/%s, timeout %ds\n", cmp.MemoryRequest, cmp.MemoryLimit, cmp.Timeout)
	}
	fmt.Fprintln(w)
}

// PrintSummary reports what was generated and how to run it.
func PrintSummary(w io.Writer, doc *model.Document, outputPath string, cmp ComparisonResources) {
	s := newStyles(w)
	m := doc.TestMatrix

	fmt.Fprintln(w, s.ok.Render(fmt.Sprintf("✅ Generated %d test configurations (%s mode)", doc.TotalTests, doc.TestMode)))
	fmt.Fprintln(w, "📁 Config file saved to: "+outputPath)
	fmt.Fprintln(w, s.heading.Render("🔧 Test matrix:"))
	fmt.Fprintln(w, "   Models: "+strings.Join(m.Models, ", "))
	fmt.Fprintln(w, "   Instance types: "+strings.Join(m.InstanceTypes, ", "))
	fmt.Fprintln(w, "   Batch sizes: "+joinInts(m.BatchSizes))
	fmt.Fprintln(w, "   Inference steps: "+joinInts(m.InferenceSteps))
	fmt.Fprintln(w, "   Resolutions: "+strings.Join(m.Resolutions, ", "))
	fmt.Fprintln(w, "   Precisions: "+strings.Join(m.Precisions, ", "))
	fmt.Fprintln(w, "   Prompt: "+doc.DefaultSettings.Prompt)

	switch doc.TestMode {
	case model.ModeSDXLOnly:
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.heading.Render("🎯 SDXL-only mode:"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Instance types suited to SDXL"))
		fmt.Fprintln(w, s.ok.Render("   ✅ float16 precision enforced"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Native 1024x1024 resolution"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Memory sized per instance"))
	case model.ModeComparison:
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.heading.Render("📊 Comparison mode:"))
		fmt.Fprintln(w, s.ok.Render("   ✅ SD 2.1 vs SDXL performance comparison"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Uniform resources for a fair comparison"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Every test uses the same CPU memory settings"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Requested precision and batch size are kept as given"))
		fmt.Fprintln(w, s.warn.Render("   ⚠️  Make sure the settings fit the hardware (OOM is not prevented)"))
		fmt.Fprintf(w, "   📋 Uniform settings: %s/%s CPU memory, requested precision, timeout=%ds\n",
			cmp.MemoryRequest, cmp.MemoryLimit, cmp.Timeout)
	case model.ModeInstanceOptimized:
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.heading.Render("🔧 Instance-optimized mode:"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Best settings for each instance type"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Incompatible combinations skipped"))
		fmt.Fprintln(w, s.ok.Render("   ✅ Fallback resolutions included"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.heading.Render("🚀 Run tests:"))
	fmt.Fprintln(w, s.dim.Render("   chmod +x "+RunnerScript))
	fmt.Fprintln(w, s.dim.Render("   ./"+RunnerScript+" "+outputPath))
}

// PrintInstances lists the static instance specification table.
func PrintInstances(w io.Writer, table model.InstanceTable) {
	s := newStyles(w)
	label := s.dim.Width(14)
	for _, inst := range table {
		status := s.ok
		switch inst.SDXLStatus {
		case model.SuitabilityGood:
			status = s.warn
		case model.SuitabilityNotRecommended:
			status = s.warn.Foreground(lipgloss.Color("196"))
		}
		fmt.Fprintf(w, "%s cpu=%-5s gpu=%-5s sdxl=%s\n",
			label.Render(inst.Name), inst.CPUMemory, inst.GPUMemory, status.Render(inst.SDXLStatus))
	}
}

// PrintModes lists every mode with its description and default matrix.
func PrintModes(w io.Writer, defaults func(model.Mode) model.Matrix) {
	s := newStyles(w)
	for i, mode := range model.Modes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		m := defaults(mode)
		fmt.Fprintln(w, s.heading.Render(string(mode))+"  "+mode.Description())
		fmt.Fprintln(w, "   models: "+strings.Join(m.Models, ", "))
		fmt.Fprintln(w, "   instance types: "+strings.Join(m.InstanceTypes, ", "))
		fmt.Fprintln(w, "   batch sizes: "+joinInts(m.BatchSizes))
		fmt.Fprintln(w, "   inference steps: "+joinInts(m.InferenceSteps))
		fmt.Fprintln(w, "   resolutions: "+strings.Join(m.Resolutions, ", "))
		fmt.Fprintln(w, "   precisions: "+strings.Join(m.Precisions, ", "))
		fmt.Fprintf(w, "   combinations: %d\n", m.Size())
	}
}

func joinInts(v []int) string {
	return strings.Join(lo.Map(v, func(n int, _ int) string { return strconv.Itoa(n) }), ", ")
}
