// Registry of the commands ApplyCommand understands. Help text, the
// interactive selector and argument validation in pkg/cli all read it.

package fx

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "percent", "float", "direction"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Effect      Effect
	Args        []ArgSpec
	Usage       string
	Description string
	OutputName  string // default download name
}

var percentArg = ArgSpec{"percent", "percent", false, "50", "strength 1-100, accepts \"50\" or \"50%\"; values below 1 count as 1"}

// Commands lists every command, in the order they are offered to the user.
var Commands = []CommandSpec{
	{
		Name:        "edge_1d",
		Effect:      EffectEdge1D,
		Usage:       "edge_1d",
		Description: "1D horizontal edge detection ([-1 0 1] per row).",
		OutputName:  "edge-detected-image.png",
	},
	{
		Name:        "edge_sobel",
		Effect:      EffectEdgeSobel,
		Usage:       "edge_sobel",
		Description: "2D Sobel edge detection (|Gx| + |Gy|).",
		OutputName:  "edge-detected-image.png",
	},
	{
		Name:        "edge_laplacian",
		Effect:      EffectEdgeLaplacian,
		Usage:       "edge_laplacian",
		Description: "2D Laplacian edge detection.",
		OutputName:  "edge-detected-image.png",
	},
	{
		Name:        "emboss",
		Effect:      EffectEmboss,
		Args:        []ArgSpec{{"direction", "direction", false, "top_left", "light direction: top_left, top_right, bottom_left, bottom_right"}},
		Usage:       "emboss [direction]",
		Description: "Directional emboss, lit from the given corner.",
		OutputName:  "embossed-image.png",
	},
	{
		Name:        "sharpen",
		Effect:      EffectSharpen,
		Args:        []ArgSpec{percentArg},
		Usage:       "sharpen [percent]",
		Description: "Sharpen RGB; 50% is the unit kernel, 100% doubles it.",
		OutputName:  "sharpen-image.png",
	},
	{
		Name:        "sepia",
		Effect:      EffectSepia,
		Args:        []ArgSpec{percentArg},
		Usage:       "sepia [percent]",
		Description: "Warm sepia tone blended by percent.",
		OutputName:  "sepia-image.png",
	},
	{
		Name:        "posterize",
		Effect:      EffectPosterize,
		Args:        []ArgSpec{percentArg},
		Usage:       "posterize [percent]",
		Description: "Reduce colour levels; higher percent means fewer levels (64 down to 2).",
		OutputName:  "posterized-image.png",
	},
	{
		Name:        "blur",
		Effect:      EffectBlur,
		Args:        []ArgSpec{percentArg, {"radius", "float", false, "", "explicit radius in pixels, overrides percent"}},
		Usage:       "blur [percent] [radius]",
		Description: "Separable Gaussian blur; percent maps to 0.5-20px.",
		OutputName:  "blurred-image.png",
	},
	{
		Name:        "grayscale",
		Effect:      EffectGrayscale,
		Args:        []ArgSpec{percentArg},
		Usage:       "grayscale [percent]",
		Description: "Desaturate towards luminance by percent.",
		OutputName:  "greyscaled-image.png",
	},
}

// LookupCommand finds a command by name or effect alias.
func LookupCommand(name string) (CommandSpec, bool) {
	e, err := ParseEffect(name)
	if err != nil {
		return CommandSpec{}, false
	}
	return CommandFor(e)
}

// CommandFor returns the registry entry for e.
func CommandFor(e Effect) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Effect == e {
			return c, true
		}
	}
	return CommandSpec{}, false
}
