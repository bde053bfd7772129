// Package doctor checks whether global hotkeys can work in the current
// session and whether the configured bindings can be grabbed.
package doctor

import (
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/charmbracelet/lipgloss"

	"github.com/TanaroSch/keymaster/internal/config"
	"github.com/TanaroSch/keymaster/internal/hotkey"
)

// Prober is a display that can test grabs without keeping them.
type Prober interface {
	hotkey.Display
	ProbeGrab(code xproto.Keycode, mods uint16) error
	LockModifiers() map[string]uint16
}

// Options configures a doctor run. Zero values are replaced by defaults.
type Options struct {
	Out     io.Writer
	Display string
	Config  *config.Config
	Open    func(name string) (Prober, error)
	Detect  func() hotkey.DisplayServer
}

func (o *Options) applyDefaults() {
	if o.Open == nil {
		o.Open = func(name string) (Prober, error) { return hotkey.OpenDisplay(name) }
	}
	if o.Detect == nil {
		o.Detect = hotkey.DetectDisplayServer
	}
}

type report struct {
	out  io.Writer
	pass lipgloss.Style
	warn lipgloss.Style
	fail lipgloss.Style
	head lipgloss.Style
	dim  lipgloss.Style

	failed bool
}

func newReport(out io.Writer) *report {
	r := lipgloss.NewRenderer(out)
	return &report{
		out:  out,
		pass: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warn: r.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		fail: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		head: r.NewStyle().Bold(true),
		dim:  r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (r *report) section(n, total int, title string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.head.Render(fmt.Sprintf("[%d/%d] %s", n, total, title)))
}

func (r *report) ok(format string, args ...any) {
	fmt.Fprintf(r.out, "  %s %s\n", r.pass.Render("PASS"), fmt.Sprintf(format, args...))
}

func (r *report) warning(format string, args ...any) {
	fmt.Fprintf(r.out, "  %s %s\n", r.warn.Render("WARN"), fmt.Sprintf(format, args...))
}

func (r *report) bad(format string, args ...any) {
	r.failed = true
	fmt.Fprintf(r.out, "  %s %s\n", r.fail.Render("FAIL"), fmt.Sprintf(format, args...))
}

func (r *report) note(format string, args ...any) {
	fmt.Fprintf(r.out, "       %s\n", r.dim.Render(fmt.Sprintf(format, args...)))
}

const totalChecks = 4

// Run prints the diagnostic report and returns an exit code (0=all pass,
// 1=any fail). Warnings do not fail the run.
func Run(opts Options) int {
	opts.applyDefaults()
	r := newReport(opts.Out)

	fmt.Fprintln(r.out, r.head.Render("keymaster doctor - hotkey diagnostics"))
	fmt.Fprintln(r.out, "=====================================")

	checkDisplayServer(r, opts.Detect())

	r.section(2, totalChecks, "X11 connection")
	d, err := opts.Open(opts.Display)
	if err != nil {
		r.bad("cannot open display: %v", err)
		return finish(r)
	}
	defer d.Close()
	r.ok("connected")

	checkLockModifiers(r, d.LockModifiers())
	checkBindings(r, d, opts.Config)

	return finish(r)
}

func finish(r *report) int {
	fmt.Fprintln(r.out)
	if r.failed {
		fmt.Fprintln(r.out, r.fail.Render("Some checks failed. See details above."))
		return 1
	}
	fmt.Fprintln(r.out, r.pass.Render("All checks passed!"))
	return 0
}

func checkDisplayServer(r *report, ds hotkey.DisplayServer) {
	r.section(1, totalChecks, "Display server")
	switch ds {
	case hotkey.DisplayServerX11:
		r.ok("X11 session")
	case hotkey.DisplayServerXWayland:
		r.warning("Wayland session with XWayland")
		r.note("hotkeys only fire while an X11 window has focus")
	case hotkey.DisplayServerWayland:
		r.bad("Wayland session without $DISPLAY; X11 key grabs are unavailable")
	default:
		r.bad("no display server detected ($DISPLAY is not set)")
	}
}

func checkLockModifiers(r *report, mods map[string]uint16) {
	r.section(3, totalChecks, "Lock modifiers")
	names := make([]string, 0, len(mods))
	for name := range mods {
		names = append(names, name)
	}
	sort.Strings(names)

	covered := hotkey.LockVariant(0, hotkey.LockVariantCount-1)
	for _, name := range names {
		mask := mods[name]
		switch {
		case mask == 0:
			r.ok("%s is not mapped to a modifier", name)
		case mask&^covered == 0:
			r.ok("%s is mask 0x%02x", name, mask)
		default:
			r.warning("%s is mask 0x%02x, hotkeys will not fire while it is on", name, mask)
		}
	}
}

func checkBindings(r *report, d Prober, cfg *config.Config) {
	r.section(4, totalChecks, "Bindings")
	if cfg == nil || len(cfg.EnabledBindings()) == 0 {
		r.warning("no enabled bindings")
		return
	}

	resolver := hotkey.KeysymResolver{}
	for _, b := range cfg.EnabledBindings() {
		code, mods, label, err := resolveBinding(resolver, d, b)
		if err != nil {
			r.bad("%s: %v", b.Name, err)
			continue
		}
		if code == 0 {
			r.bad("%s: %s is not on this keyboard", b.Name, label)
			continue
		}
		if err := d.ProbeGrab(code, mods); err != nil {
			r.bad("%s: %s cannot be grabbed", b.Name, label)
			r.note("%v", err)
			r.note("another application owns this combination, or keymaster itself is")
			r.note("already running; stop the running instance before checking its bindings")
			continue
		}
		r.ok("%s: %s (keycode %d)", b.Name, label, code)
	}
}

func resolveBinding(resolver hotkey.Resolver, d hotkey.Display, b config.Binding) (xproto.Keycode, uint16, string, error) {
	if b.Media != "" {
		m, err := hotkey.ParseMediaKey(b.Media)
		if err != nil {
			return 0, 0, "", err
		}
		return d.KeysymToKeycode(resolver.ResolveMedia(m)), 0, "media:" + m.String(), nil
	}
	c, err := hotkey.ParseCombination(b.Hotkey)
	if err != nil {
		return 0, 0, "", err
	}
	code, mods := resolver.Resolve(c, d)
	return code, mods, c.String(), nil
}
