// Command monitor is an SDL2 register/memory viewer for the interpreter.
// It loads a flat binary image, runs the interpreter one instruction at
// a time, and renders PC/registers/flags plus a hex dump and the next
// instruction's disassembly every frame. It's a debugging aid, not a
// full machine: there is no video/audio peripheral emulation here, only
// the CPU state the interpreter itself exposes.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/sixtwofive/emu6502/cpu"
	"github.com/sixtwofive/emu6502/disassemble"
	"github.com/sixtwofive/emu6502/irq"
	"github.com/sixtwofive/emu6502/memory"
)

var (
	rom         = flag.String("rom", "", "Path to a flat binary image to load")
	loadAddr    = flag.Uint("load_addr", 0x0200, "Address to load the ROM image at and, absent -start, to set the reset vector to")
	start       = flag.Uint("start", 0, "PC to start execution at; if 0, uses -load_addr")
	scale       = flag.Int("scale", 2, "Window scale factor")
	port        = flag.Int("pprof_port", 6060, "Port to run the pprof HTTP server on")
	instPerTick = flag.Int("inst_per_tick", 1, "Instructions to execute per rendered frame")
	dumpAddr    = flag.Uint("dump_addr", 0x0000, "Base address for the hex dump panel")
)

const (
	winW, winH = 520, 360
)

func main() {
	flag.Parse()

	go func() {
		log.Println(http.ListenAndServe(fmt.Sprintf("localhost:%d", *port), nil))
	}()

	bank, err := memory.NewRAM(1<<16, nil)
	if err != nil {
		log.Fatalf("can't create memory: %v", err)
	}
	bank.PowerOn()

	startPC := uint16(*loadAddr)
	if *start != 0 {
		startPC = uint16(*start)
	}
	if *rom != "" {
		data, err := os.ReadFile(*rom)
		if err != nil {
			log.Fatalf("can't read rom: %v", err)
		}
		for i, b := range data {
			bank.Write(uint16(*loadAddr)+uint16(i), b)
		}
	}
	bank.Write(cpu.ResetVector, uint8(startPC))
	bank.Write(cpu.ResetVector+1, uint8(startPC>>8))

	// nmiLine/irqLine are this driving loop's own interrupt lines; the
	// Chip doesn't hold a reference to either, it only exposes NMI/IRQ
	// for us to call once we've decided a line is asserted.
	nmiLine := &irq.Line{}
	irqLine := &irq.Line{}
	chip, err := cpu.New(cpu.ChipConfig{Memory: bank})
	if err != nil {
		log.Fatalf("can't create cpu: %v", err)
	}
	if _, err := chip.Reset(); err != nil {
		log.Fatalf("reset: %v", err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("can't init SDL: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("6502 monitor", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(winW**scale), int32(winH**scale), sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("can't create window: %v", err)
	}
	defer window.Destroy()

	surface, err := window.GetSurface()
	if err != nil {
		log.Fatalf("can't get window surface: %v", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, winW, winH))
	paused := false

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				switch e.Keysym.Sym {
				case sdl.K_SPACE:
					paused = !paused
				case sdl.K_n:
					nmiLine.Set(true)
				case sdl.K_i:
					irqLine.Set(true)
				case sdl.K_r:
					if _, err := chip.Reset(); err != nil {
						log.Printf("reset: %v", err)
					}
				}
			}
		}

		if !paused {
			for i := 0; i < *instPerTick; i++ {
				if nmiLine.Raised() {
					if _, err := chip.NMI(); err != nil {
						log.Printf("nmi: %v", err)
					}
					nmiLine.Set(false)
				}
				if irqLine.Raised() {
					if _, err := chip.IRQ(); err != nil {
						log.Printf("irq: %v", err)
					}
					irqLine.Set(false)
				}
				if _, err := chip.Step(); err != nil {
					log.Printf("halted: %v", err)
					paused = true
					break
				}
			}
		}

		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
		renderFrame(canvas, chip, bank)
		blit(canvas, surface, *scale)
		window.UpdateSurface()

		sdl.Delay(16)
	}
}

func renderFrame(dst *image.RGBA, chip *cpu.Chip, bank memory.Bank) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{0x20, 0xE0, 0x20, 0xFF}),
		Face: basicfont.Face7x13,
	}

	line := func(y int, format string, args ...interface{}) {
		d.Dot = fixed.P(8, y)
		d.DrawString(fmt.Sprintf(format, args...))
	}

	line(16, "PC:%.4X  A:%.2X  X:%.2X  Y:%.2X  S:%.2X", chip.GetPC(), chip.GetA(), chip.GetX(), chip.GetY(), chip.GetS())
	line(32, "P:%.2X  NV-BDIZC: %08b", chip.GetP(), chip.GetP())

	text, _ := disassemble.Step(chip.GetPC(), bank)
	line(52, "next: %s", text)

	base := uint16(*dumpAddr)
	for row := 0; row < 16; row++ {
		addr := base + uint16(row*8)
		rowBytes := make([]string, 8)
		for col := 0; col < 8; col++ {
			rowBytes[col] = fmt.Sprintf("%.2X", bank.Read(addr+uint16(col)))
		}
		y := 80 + row*14
		d.Dot = fixed.P(8, y)
		d.DrawString(fmt.Sprintf("%.4X: %s", addr, joinBytes(rowBytes)))
	}
}

func joinBytes(b []string) string {
	out := ""
	for i, s := range b {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

// blit copies canvas into surface's pixel buffer, nearest-neighbor
// scaled, writing RGBA bytes directly the way a tight redraw loop must
// to avoid per-pixel color.Color conversion overhead.
func blit(canvas *image.RGBA, surface *sdl.Surface, scale int) {
	pixels := surface.Pixels()
	bpp := int(surface.Format.BytesPerPixel)
	pitch := int(surface.Pitch)
	bounds := canvas.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := canvas.At(x, y).RGBA()
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					px := x*scale + sx
					py := y*scale + sy
					off := py*pitch + px*bpp
					if off+3 >= len(pixels) {
						continue
					}
					pixels[off+0] = uint8(b >> 8)
					pixels[off+1] = uint8(g >> 8)
					pixels[off+2] = uint8(r >> 8)
					pixels[off+3] = uint8(a >> 8)
				}
			}
		}
	}
}
