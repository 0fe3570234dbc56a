package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	tmplerrors "github.com/pipe01/tmplint/errors"
	"github.com/pipe01/tmplint/internal/validator"
	"github.com/pipe01/tmplint/internal/workspace"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

var (
	noIndent   = kingpin.Flag("no-indent", "Don't require end tags to line up with their start tags").Envar("TMPLINT_NO_INDENT").Bool()
	extensions = kingpin.Flag("ext", "Extensions of the files to check inside directories").Default(workspace.DefaultExtensions...).Envar("TMPLINT_EXT").Strings()
	jobs       = kingpin.Flag("jobs", "Number of files to check at once, 0 for one per CPU").Short('j').Default("0").Envar("TMPLINT_JOBS").Int()
	watch      = kingpin.Flag("watch", "Watch files for changes and check them again").Short('w').Bool()
	verbose    = kingpin.Flag("verbose", "Log more, repeat for even more").Short('v').Counter()
	paths      = kingpin.Arg("paths", "Template files or directories to check").Required().ExistingFilesOrDirs()

	log = commonlog.GetLogger("tmplint")
)

func main() {
	kingpin.Version(version)
	kingpin.Parse()

	commonlog.Configure(*verbose, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wd, _ := os.Getwd()
	opts := workspaceOptions()

	if *watch {
		err := watchFiles(ctx, wd, opts)
		if err != nil {
			kingpin.Fatalf("failed to watch files: %s", err)
		}
		return
	}

	ok, err := checkAll(ctx, wd, opts)
	if err != nil {
		kingpin.Fatalf("failed to check files: %s", err)
	}
	if !ok {
		os.Exit(1)
	}
}

func workspaceOptions() workspace.Options {
	exts := make([]string, 0, len(*extensions))
	for _, e := range *extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}

	return workspace.Options{
		Validator: validator.Options{
			CheckIndentation: !*noIndent,
		},
		Extensions: exts,
		Jobs:       *jobs,
	}
}

func checkAll(ctx context.Context, root string, opts workspace.Options) (ok bool, err error) {
	ws := workspace.New(root, opts)

	files, err := ws.Discover(*paths)
	if err != nil {
		return false, err
	}

	log.Debugf("checking %d files", len(files))

	results, err := ws.CheckAll(ctx, files)
	if err != nil {
		return false, err
	}

	ok = true
	for _, r := range results {
		if r.Err != nil {
			ok = false
			report(os.Stdout, r.Path, r.Err)
		}
	}

	log.Infof("checked %d files", len(files))
	return ok, nil
}

// report prints err as "file:line:col: message", followed by the start tag
// involved if there is one.
func report(w io.Writer, path string, err error) {
	poserr, ok := tmplerrors.Situate(err)
	if !ok {
		fmt.Fprintf(w, "%s: %s\n", path, err)
		return
	}

	at := poserr.At()
	fmt.Fprintf(w, "%s:%d:%d: %s\n", path, at.Line, at.Column, tmplerrors.Message(err))

	var verr *validator.ValidationError
	if goerrors.As(err, &verr) && verr.Start != nil {
		start := verr.Start
		firstLine, _, _ := strings.Cut(start.Contents, "\n")

		fmt.Fprintf(w, "\tstart: %s (line %d, col %d)\n", firstLine, start.Start.Line, start.Start.Column)
	}
}
