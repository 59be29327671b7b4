package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cfgpkg "github.com/KaramelBytes/dimred-cli/internal/config"
	"github.com/KaramelBytes/dimred-cli/internal/gallery"
)

// resetCLIState restores flag-bound variables to their registration defaults
// and clears sticky Changed state so commands can run repeatedly in-process.
func resetCLIState() {
	pcaOpts = embedOpts{data: "mtcars", scale: "standardize"}
	famdOpts = embedOpts{data: "mtcars"}
	famdFactors = nil
	mdsOpts = embedOpts{data: "mtcars", scale: "standardize"}
	tsneOpts = embedOpts{data: "iris", scale: "none"}
	tsnePerplexity, tsneLearnRate, tsneIters = 30, 200, 1000
	umapOpts = embedOpts{data: "iris", scale: "none"}
	umapNeighbors, umapMinDist, umapEpochs = 15, 0.1, 300
	allHTML = false
	sumGroupBy, sumSampleRows, sumCorrPairs, sumNeighbors, sumOutputPath = "", 5, 10, 0, ""
	cfgFile, debug, flagOut, flagSeed = "", false, "", 0
	cfg = nil
	sugar = nil
	for _, c := range []*cobra.Command{
		rootCmd, pcaCmd, famdCmd, mdsCmd, tsneCmd, umapCmd,
		allCmd, datasetsCmd, summaryCmd, listCmd,
		configCmd, configShowCmd, configSetCmd, initCmd,
	} {
		clearChanged(c.Flags())
		clearChanged(c.PersistentFlags())
	}
}

func clearChanged(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	resetCLIState()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// runCmdErr executes the root command expecting a failure.
func runCmdErr(t *testing.T, args ...string) error {
	t.Helper()
	resetCLIState()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		t.Fatalf("command %v succeeded, expected error", args)
	}
	return err
}

func singleRun(t *testing.T, out string) *gallery.Run {
	t.Helper()
	runs, err := gallery.List(out)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(runs))
	}
	return runs[0]
}

func readArtifact(t *testing.T, r *gallery.Run, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(r.Dir(), name))
	if err != nil {
		t.Fatalf("read artifact %s: %v", name, err)
	}
	return string(b)
}

func TestCLI_PCA_Mtcars(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := t.TempDir()

	runCmd(t, "pca", "--out", out)

	r := singleRun(t, out)
	if r.Technique != "pca" || r.Dataset != "mtcars" || r.Rows != 32 {
		t.Fatalf("manifest = %s on %s, rows %d", r.Technique, r.Dataset, r.Rows)
	}
	for _, name := range []string{"embedding.png", "scree.png", "coordinates.csv", "report.md", "manifest.json"} {
		info, err := os.Stat(filepath.Join(r.Dir(), name))
		if err != nil {
			t.Fatalf("artifact %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("artifact %s is empty", name)
		}
	}

	md := readArtifact(t, r, "report.md")
	for _, want := range []string{"[PCA SUMMARY]", "[VARIANCE EXPLAINED]", "[TOP LOADINGS]", "[READING THE MAP]"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}

	coords := strings.Split(strings.TrimSpace(readArtifact(t, r, "coordinates.csv")), "\n")
	if len(coords) != 33 {
		t.Fatalf("coordinate lines = %d, want 33", len(coords))
	}
	if coords[0] != "row,PC1,PC2" {
		t.Fatalf("coordinates header = %q", coords[0])
	}
	if !strings.HasPrefix(coords[1], "Mazda RX4,") {
		t.Fatalf("first coordinate row = %q", coords[1])
	}
}

func TestCLI_PCA_KMeansOverlay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := t.TempDir()

	runCmd(t, "pca", "--out", out, "--kmeans", "3", "--no-labels")

	r := singleRun(t, out)
	if r.Params["kmeans"] != "3" {
		t.Fatalf("kmeans param = %q, want 3", r.Params["kmeans"])
	}
	md := readArtifact(t, r, "report.md")
	if !strings.Contains(md, "k-means (k=3)") {
		t.Errorf("report missing cluster color note:\n%s", md)
	}
	if !strings.Contains(md, "k-means split the embedded points") {
		t.Errorf("report missing cluster size commentary:\n%s", md)
	}
}

func TestCLI_FAMD_MtcarsFactors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := t.TempDir()

	runCmd(t, "famd", "--out", out)

	r := singleRun(t, out)
	if r.Technique != "famd" || r.Rows != 32 {
		t.Fatalf("manifest = %s, rows %d", r.Technique, r.Rows)
	}
	if r.Params["scale"] != "famd" {
		t.Fatalf("scale param = %q, want famd", r.Params["scale"])
	}
	md := readArtifact(t, r, "report.md")
	for _, want := range []string{"[FAMD SUMMARY]", "[TOP CONTRIBUTORS]", "- Colored by: cyl"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
	coords := strings.Split(strings.TrimSpace(readArtifact(t, r, "coordinates.csv")), "\n")
	if coords[0] != "row,Dim 1,Dim 2,group" {
		t.Fatalf("coordinates header = %q", coords[0])
	}
}

func TestCLI_MDS_CustomFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.csv")
	table := "name,weight,height,age\nrex,30,60,4\nmia,4,25,7\nbob,20,50,2\nzoe,8,30,5\n"
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	out := t.TempDir()

	runCmd(t, "mds", "--data", path, "--out", out)

	r := singleRun(t, out)
	if r.Technique != "mds" || r.Dataset != "pets.csv" || r.Rows != 4 {
		t.Fatalf("manifest = %s on %s, rows %d", r.Technique, r.Dataset, r.Rows)
	}
	coords := strings.Split(strings.TrimSpace(readArtifact(t, r, "coordinates.csv")), "\n")
	if !strings.HasPrefix(coords[1], "rex,") {
		t.Fatalf("first coordinate row = %q, want rex", coords[1])
	}
}

func TestCLI_TSNE_IrisDropsDuplicates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := t.TempDir()

	runCmd(t, "tsne", "--out", out, "--iterations", "120", "--perplexity", "10")

	r := singleRun(t, out)
	if r.Rows != 149 {
		t.Fatalf("embedded rows = %d, want 149 after deduplication", r.Rows)
	}
	if r.Params["perplexity"] != "10" {
		t.Fatalf("perplexity param = %q, want 10", r.Params["perplexity"])
	}
	md := readArtifact(t, r, "report.md")
	for _, want := range []string{"[TSNE SUMMARY]", "149 of 150", "KL divergence", "- Colored by: species"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
	for _, a := range r.Artifacts {
		if a == "scree.png" {
			t.Error("t-SNE run should not produce a scree plot")
		}
	}
}

func TestCLI_UMAP_Iris(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := t.TempDir()

	runCmd(t, "umap", "--out", out, "--epochs", "30", "--neighbors", "10", "--html")

	r := singleRun(t, out)
	if r.Rows != 150 {
		t.Fatalf("embedded rows = %d, want 150", r.Rows)
	}
	if r.Params["neighbors"] != "10" {
		t.Fatalf("neighbors param = %q, want 10", r.Params["neighbors"])
	}
	html := readArtifact(t, r, "embedding.html")
	if !strings.Contains(html, "echarts") {
		t.Error("interactive artifact does not look like an echarts page")
	}
	md := readArtifact(t, r, "report.md")
	if !strings.Contains(md, "[UMAP SUMMARY]") {
		t.Errorf("report missing UMAP summary:\n%s", md)
	}
}

func TestCLI_AllRunsEveryTechnique(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DIMRED_TSNE_ITERATIONS", "80")
	t.Setenv("DIMRED_TSNE_PERPLEXITY", "10")
	t.Setenv("DIMRED_UMAP_EPOCHS", "30")
	out := t.TempDir()

	runCmd(t, "all", "--out", out)

	runs, err := gallery.List(out)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 5 {
		t.Fatalf("recorded runs = %d, want 5", len(runs))
	}
	got := map[string]bool{}
	for _, r := range runs {
		got[r.Technique] = true
	}
	for _, want := range []string{"pca", "famd", "mds", "tsne", "umap"} {
		if !got[want] {
			t.Errorf("missing %s run in %v", want, got)
		}
	}
}

func TestCLI_SummaryToFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	outFile := filepath.Join(t.TempDir(), "iris.md")

	runCmd(t, "summary", "iris", "-o", outFile, "--sample-rows", "3")

	b, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	for _, want := range []string{"[DATASET SUMMARY]", "species=setosa (n=50)", "petal_length ~ petal_width"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestCLI_SummaryNeighbors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	outFile := filepath.Join(t.TempDir(), "mtcars.md")

	runCmd(t, "summary", "mtcars", "-o", outFile, "--sample-rows", "3", "--neighbors", "2")

	b, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	md := string(b)
	if !strings.Contains(md, "[NEAREST NEIGHBORS]") {
		t.Fatalf("summary missing neighbor section:\n%s", md)
	}
	if !strings.Contains(md, "\n- Mazda RX4: ") {
		t.Errorf("neighbor section missing first sample row:\n%s", md)
	}
}

func TestCLI_ConfigSetAndReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	runCmd(t, "--config", cfgPath, "config", "set", "seed", "7")
	runCmd(t, "--config", cfgPath, "config", "set", "out_dir", "plots")

	c, err := cfgpkg.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.Seed != 7 || c.OutDir != "plots" {
		t.Fatalf("config = seed %d, out_dir %q; want 7, plots", c.Seed, c.OutDir)
	}

	runCmd(t, "--config", cfgPath, "config", "show")

	if err := runCmdErr(t, "--config", cfgPath, "config", "set", "tsne_perplexity", "frogs"); !strings.Contains(err.Error(), "tsne_perplexity") {
		t.Fatalf("expected tsne_perplexity parse error, got %v", err)
	}
	if err := runCmdErr(t, "--config", cfgPath, "config", "set", "nope", "1"); !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestCLI_InitCreatesWorkspace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	out := filepath.Join(t.TempDir(), "artifacts")

	runCmd(t, "init", "--config", cfgPath, "--out", out)

	if info, err := os.Stat(out); err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}
	c, err := cfgpkg.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.OutDir != out {
		t.Fatalf("saved out_dir = %q, want %q", c.OutDir, out)
	}
}

func TestCLI_DatasetsAndEmptyList(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	runCmd(t, "datasets")
	runCmd(t, "list", "--out", t.TempDir())
}

func TestCLI_ErrorPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := t.TempDir()

	if err := runCmdErr(t, "pca", "--data", "wine", "--out", out); !strings.Contains(err.Error(), "wine") {
		t.Fatalf("expected unknown dataset error naming wine, got %v", err)
	}
	if err := runCmdErr(t, "pca", "--color-by", "mpg", "--out", out); !strings.Contains(err.Error(), "categorical") {
		t.Fatalf("expected categorical color-by error, got %v", err)
	}

	small := filepath.Join(t.TempDir(), "small.csv")
	table := "a,b\n1,2\n2,3\n3,4\n4,5\n5,6\n6,7\n"
	if err := os.WriteFile(small, []byte(table), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	if err := runCmdErr(t, "tsne", "--data", small, "--out", out); !strings.Contains(err.Error(), "perplexity") {
		t.Fatalf("expected perplexity bound error, got %v", err)
	}
}
