package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Fepozopo/pixfx/pkg/fx"
)

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  /  - select and apply an effect")
	fmt.Println("  o  - open another image")
	fmt.Println("  r  - revert to the opened image")
	fmt.Println("  s  - save current image")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// session is the state of one interactive run. Effects stack on current;
// original is what was opened, already fitted to the viewport.
type session struct {
	cfg        Config
	store      *MetaStore
	path       string
	format     string
	original   *fx.PixelBuffer
	current    *fx.PixelBuffer
	lastEffect fx.Effect
}

func newSession(cfg Config) *session {
	return &session{cfg: cfg, store: NewMetaStore(fx.Commands)}
}

func (s *session) open(path string) error {
	img, format, err := LoadImage(path)
	if err != nil {
		return err
	}
	img = FitToViewport(img, s.cfg.MaxWidth, s.cfg.MaxHeight)
	s.path, s.format = path, format
	s.original = fx.FromImage(img)
	s.current = s.original
	s.lastEffect = 0
	log.WithFields(log.Fields{"path": path, "format": format, "width": s.original.Width, "height": s.original.Height}).Debug("image opened")
	return nil
}

// apply runs a command against the current image. rawArgs are validated and
// clamped through the registry first.
func (s *session) apply(name string, rawArgs []string) error {
	if s.current == nil {
		return fmt.Errorf("no image loaded")
	}
	c, ok := s.store.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	args, err := NormalizeArgs(s.store, c.Name, rawArgs)
	if err != nil {
		return err
	}
	out, err := fx.ApplyCommand(s.current, c.Name, args)
	if err != nil {
		return err
	}
	s.current = out
	s.lastEffect = c.Effect
	return nil
}

func (s *session) revert() {
	s.current = s.original
	s.lastEffect = 0
}

// defaultSavePath is the download name of the last effect inside the
// output directory, or the opened file's name when nothing was applied.
func (s *session) defaultSavePath() string {
	name := "image.png"
	if s.lastEffect != 0 {
		name = DefaultOutputName(s.lastEffect)
	} else if s.path != "" {
		name = filepath.Base(s.path)
	}
	return filepath.Join(s.cfg.OutputDir, name)
}

func (s *session) save(path string) error {
	if s.current == nil {
		return fmt.Errorf("no image loaded")
	}
	if path == "" {
		path = s.defaultSavePath()
	}
	if err := SaveImage(path, s.current.Image()); err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", path)
	return nil
}

func (s *session) show() {
	if s.current == nil {
		return
	}
	img := s.current.Image()
	if previewBackend == "" && !PreviewSupported() {
		debugf("no preview backend for this terminal")
	} else if err := PreviewImage(img, s.format); err != nil {
		debugf("preview skipped: %v", err)
	}
	if info, err := GetImageInfoImage(img, s.format); err == nil {
		fmt.Println(info)
	}
}

// chooseCommand asks fzf for a command and falls back to a numbered list.
func (s *session) chooseCommand() (string, bool) {
	if name, err := SelectCommandWithFzf(s.store.Commands); err == nil && name != "" {
		return name, true
	}
	fmt.Println("Command selection (fallback):")
	for i, c := range s.store.Commands {
		fmt.Printf("  %d) %s - %s\n", i+1, c.Name, c.Description)
	}
	selection, _ := PromptLine("Enter number or command name (leave empty to cancel): ")
	if selection == "" {
		fmt.Println("selection cancelled")
		return "", false
	}
	if idx, err := strconv.Atoi(selection); err == nil {
		if idx < 1 || idx > len(s.store.Commands) {
			fmt.Println("invalid selection")
			return "", false
		}
		return s.store.Commands[idx-1].Name, true
	}
	if c, ok := s.store.Lookup(selection); ok {
		return c.Name, true
	}
	var matches []string
	for _, c := range s.store.Commands {
		if strings.HasPrefix(c.Name, strings.ToLower(selection)) {
			matches = append(matches, c.Name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], true
	case 0:
		fmt.Printf("unknown command: %s\n", selection)
	default:
		fmt.Println("ambiguous selection, candidates:")
		for _, m := range matches {
			fmt.Println("  " + m)
		}
	}
	return "", false
}

func (s *session) promptArgs(name string) []string {
	c, _ := s.store.Lookup(name)
	tooltip, _, _ := s.store.GetCommandHelp(name)
	fmt.Println("\n" + tooltip + "\n")
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		prompt := fmt.Sprintf("%s (%s) [%s]: ", a.Name, a.Type, a.Default)
		v, err := PromptLine(prompt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		}
		args[i] = v
	}
	return args
}

// RunInteractive is the terminal editor loop. inputPath may be empty.
func RunInteractive(cfg Config, inputPath string) error {
	s := newSession(cfg)
	if inputPath != "" {
		if err := s.open(inputPath); err != nil {
			return fmt.Errorf("failed to read image %s: %w", inputPath, err)
		}
		s.show()
	}

	fmt.Println("pixfx interactive")
	usage()

	for {
		line, err := PromptLine("> ")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			continue
		}

		switch line[0] {
		case '/':
			if s.current == nil {
				fmt.Println("No image loaded. Press 'o' to open an image first, or pass an image path.")
				continue
			}
			name, ok := s.chooseCommand()
			if !ok {
				continue
			}
			if err := s.apply(name, s.promptArgs(name)); err != nil {
				fmt.Fprintf(os.Stderr, "apply command error: %v\n", err)
				continue
			}
			fmt.Printf("Applied %s\n", name)
			s.show()

		case 'o':
			path, _ := PromptLineWithFzf("Enter path to image to open ('/' to browse, empty to cancel): ")
			if path == "" {
				fmt.Println("open cancelled")
				continue
			}
			if err := s.open(path); err != nil {
				fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", path, err)
				continue
			}
			fmt.Printf("Opened %s\n", path)
			s.show()

		case 'r':
			if s.original == nil {
				fmt.Println("nothing to revert")
				continue
			}
			s.revert()
			fmt.Println("Reverted")
			s.show()

		case 's':
			if s.current == nil {
				fmt.Println("No image loaded.")
				continue
			}
			out, _ := PromptLine(fmt.Sprintf("Enter output filename [%s]: ", s.defaultSavePath()))
			if err := s.save(out); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write image: %v\n", err)
			}

		case 'u':
			if err := CheckForUpdates(); err != nil {
				fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			}

		case 'h':
			usage()

		case 'q':
			fmt.Println("Exiting...")
			return nil
		}
	}
}
