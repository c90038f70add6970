package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ltefleet/go-credprov/atmodem"
	"github.com/ltefleet/go-credprov/credblob"
	"github.com/ltefleet/go-credprov/nvm"
	"github.com/ltefleet/go-credprov/provision"
)

var flagImage = &cli.StringFlag{
	Name:  "image",
	Value: "cred-region.bin",
	Usage: "path of the credential region image file",
}
var flagBase = &cli.StringFlag{
	Name:  "base",
	Value: fmt.Sprintf("0x%X", credblob.DefaultBaseAddr),
	Usage: "flash base address of the credential region",
}
var flagManifest = &cli.StringFlag{
	Name:  "manifest",
	Value: "credentials.yaml",
	Usage: "YAML manifest listing the credentials to stage",
}
var flagIdentity = &cli.StringFlag{
	Name:  "identity",
	Value: "352656100367872",
	Usage: "IMEI reported by the simulated modem",
}
var flagFailIndex = &cli.IntFlag{
	Name:  "fail-index",
	Value: -1,
	Usage: "0-based credential write the simulated modem rejects; -1 never fails",
}
var flagFailCode = &cli.IntFlag{
	Name:  "fail-code",
	Value: int(atmodem.CMEMemoryFull),
	Usage: "CME error code for the injected rejection",
}
var flagModemConfig = &cli.StringFlag{
	Name:  "modem-config",
	Value: "",
	Usage: "YAML simulated-modem config; overrides the identity/fail flags",
}

var flagLogJSON = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var flagLogDebug = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var flagLogUID = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var logFlags = []cli.Flag{flagLogJSON, flagLogDebug, flagLogUID}

func main() {
	app := &cli.App{
		Name:  "credemu",
		Usage: "Stage, run and inspect credential region images against a simulated modem",
		Commands: []*cli.Command{
			{
				Name:   "stage",
				Usage:  "Build a region image from a credential manifest",
				Flags:  append([]cli.Flag{flagImage, flagManifest}, logFlags...),
				Action: runStage,
			},
			{
				Name:   "run",
				Usage:  "Run the provisioning sequence against a simulated modem",
				Flags:  append([]cli.Flag{flagImage, flagBase, flagIdentity, flagFailIndex, flagFailCode, flagModemConfig}, logFlags...),
				Action: runProvision,
			},
			{
				Name:   "inspect",
				Usage:  "Print the header and records of a region image",
				Flags:  []cli.Flag{flagImage},
				Action: runInspect,
			},
			{
				Name:   "erase",
				Usage:  "Reset a region image to erased flash",
				Flags:  append([]cli.Flag{flagImage}, logFlags...),
				Action: runErase,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(cCtx *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if cCtx.Bool(flagLogDebug.Name) {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cCtx.Bool(flagLogJSON.Name) {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	if cCtx.Bool(flagLogUID.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func parseBase(cCtx *cli.Context) (uint32, error) {
	raw := cCtx.String(flagBase.Name)
	base, err := strconv.ParseUint(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid base address %q: %w", raw, err)
	}
	return uint32(base), nil
}

func loadImage(path string) ([]byte, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(img) != credblob.RegionSize {
		return nil, fmt.Errorf("image %s is %d bytes, want %d", path, len(img), credblob.RegionSize)
	}
	return img, nil
}

func runStage(cCtx *cli.Context) error {
	logger := setupLogger(cCtx)

	manifest, err := LoadManifest(cCtx.String(flagManifest.Name))
	if err != nil {
		return err
	}

	b := credblob.NewBuilder()
	for i := range manifest.Credentials {
		cred := &manifest.Credentials[i]
		kind, err := cred.Kind()
		if err != nil {
			return err
		}
		payload, err := cred.Payload()
		if err != nil {
			return err
		}
		if err := b.Add(cred.Tag, kind, payload); err != nil {
			return fmt.Errorf("credential tag %d: %w", cred.Tag, err)
		}
		logger.Info("staged credential", "tag", cred.Tag, "kind", kind.String(), "len", len(payload))
	}

	img, err := b.Image()
	if err != nil {
		return err
	}

	path := cCtx.String(flagImage.Name)
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	logger.Info("wrote region image", "path", path, "credentials", b.Len())
	return nil
}

func runProvision(cCtx *cli.Context) error {
	logger := setupLogger(cCtx)

	base, err := parseBase(cCtx)
	if err != nil {
		return err
	}
	path := cCtx.String(flagImage.Name)
	img, err := loadImage(path)
	if err != nil {
		return err
	}

	flash := nvm.NewMemFlashFromImage(base, img)
	sim := atmodem.NewSimModem(cCtx.String(flagIdentity.Name))
	sim.FailIndex = cCtx.Int(flagFailIndex.Name)
	sim.FailCode = int32(cCtx.Int(flagFailCode.Name))
	if cfgPath := cCtx.String(flagModemConfig.Name); cfgPath != "" {
		mc, err := LoadModemConfig(cfgPath)
		if err != nil {
			return err
		}
		if mc.Identity != "" {
			sim.Identity = mc.Identity
		}
		sim.FailIndex = mc.FailIndex
		sim.FailCode = mc.FailCode
	}
	modem := atmodem.New(sim)

	prov := provision.New(modem, modem, flash,
		provision.WithLayout(credblob.NewLayout(base)),
		provision.WithLogger(logger),
		provision.WithEventCallback(func(e provision.Event) {
			if e.Phase == provision.PhaseCredentials {
				fmt.Printf("writing credential %d/%d\n", e.Record, e.TotalRecords)
			}
		}),
	)

	res, err := prov.Run(cCtx.Context)
	if err != nil {
		return err
	}

	// Persist the mutated region so reruns see the completion guard.
	if err := os.WriteFile(path, flash.Snapshot(), 0644); err != nil {
		return fmt.Errorf("write image back: %w", err)
	}

	if res.IdentityErr != nil {
		fmt.Printf("identity: error: %v\n", res.IdentityErr)
	} else {
		fmt.Printf("identity: %s\n", res.Identity)
	}
	cres := res.Credentials
	fmt.Printf("credentials: %s (code %d, %d written)\n", cres.Outcome, cres.Code, cres.Written)
	fmt.Printf("modem store: %d credential(s)\n", len(sim.Stored))
	return nil
}

func runInspect(cCtx *cli.Context) error {
	img, err := loadImage(cCtx.String(flagImage.Name))
	if err != nil {
		return err
	}

	hdr, err := credblob.ParseHeader(img)
	if err != nil {
		return err
	}

	fmt.Printf("fingerprint: 0x%08X (staged: %v)\n", hdr.Fingerprint, hdr.Fingerprinted())
	if hdr.Completion.Attempted {
		fmt.Printf("completion: code %d\n", hdr.Completion.Code)
	} else {
		fmt.Println("completion: blank")
	}
	if id := hdr.IdentityString(); id != "" {
		fmt.Printf("identity: %s\n", id)
	} else {
		fmt.Println("identity: blank")
	}
	if !hdr.Count.Staged {
		fmt.Println("records: none")
		return nil
	}

	fmt.Printf("records: %d\n", hdr.Count.N)
	cur := credblob.NewCursor(img[credblob.HeaderSize:])
	for i := 0; i < hdr.Count.N; i++ {
		rec, err := cur.Next()
		if err != nil {
			fmt.Printf("  [%d] %v\n", i+1, err)
			return nil
		}
		fmt.Printf("  [%d] tag=%d kind=%s len=%d\n", i+1, rec.Tag, rec.Kind, len(rec.Payload))
	}
	return nil
}

func runErase(cCtx *cli.Context) error {
	logger := setupLogger(cCtx)

	img := make([]byte, credblob.RegionSize)
	for i := range img {
		img[i] = 0xFF
	}

	path := cCtx.String(flagImage.Name)
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	logger.Info("erased region image", "path", path)
	return nil
}
