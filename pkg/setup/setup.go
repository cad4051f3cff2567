// Package setup drives circuit compilation, Groth16 trusted setup (dev and
// MPC ceremony), and proving-key export/import for any gnark
// frontend.Circuit — this package is generic over the circuit it is
// handed, so the same code compiles/sets up the mixer, bridge and
// transaction gadgets below. It is component C11's compile/setup half;
// pkg/driver covers witness assembly and the prove/verify calls that use
// the keys this package produces. Every gadget in this library is
// fixed-shape and benefits from a per-circuit trusted setup, so Groth16 is
// the only backend wired in; there is no PLONK circuit in the registry
// left to exercise a universal-SRS path.
package setup

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/groth16/bn254/mpcsetup"
	"github.com/consensys/gnark/constraint"
	cs_bn254 "github.com/consensys/gnark/constraint/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"

	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
)

var log = logger.Logger()

// CompileCircuit compiles a gnark circuit into an R1CS constraint system
// over the BN254 scalar field (the field pkg/field and pkg/params already
// assume throughout).
func CompileCircuit(circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("compile circuit: %w", err)
	}
	log.Info().Int("constraints", ccs.GetNbConstraints()).Msg("circuit compiled")
	return ccs, nil
}

// DevSetup performs a single-party Groth16 trusted setup (NOT for
// production) and writes the proving key, verifying key, and Solidity
// verifier to outputDir.
func DevSetup(circuit frontend.Circuit, outputDir, circuitName string) error {
	log.Warn().Str("circuit", circuitName).Msg("single-party dev setup: 1-of-1 trust, do not use in production")

	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("groth16 setup: %w", err)
	}

	return ExportKeys(pk, vk, outputDir, circuitName)
}

// ExportKeys writes the proving key, verifying key, and Solidity verifier to
// outputDir as <circuitName>_prover.key, <circuitName>_verifier.key and
// <circuitName>_verifier.sol.
func ExportKeys(pk groth16.ProvingKey, vk groth16.VerifyingKey, outputDir, circuitName string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	solPath := filepath.Join(outputDir, circuitName+"_verifier.sol")
	f, err := os.Create(solPath)
	if err != nil {
		return fmt.Errorf("create solidity verifier: %w", err)
	}
	if err := vk.ExportSolidity(f); err != nil {
		f.Close()
		return fmt.Errorf("export solidity verifier: %w", err)
	}
	f.Close()

	vkPath := filepath.Join(outputDir, circuitName+"_verifier.key")
	if err := saveObject(vkPath, vk); err != nil {
		return err
	}

	pkPath := filepath.Join(outputDir, circuitName+"_prover.key")
	if err := saveObject(pkPath, pk); err != nil {
		return err
	}

	log.Info().Str("pk", pkPath).Str("vk", vkPath).Str("sol", solPath).Msg("keys exported")
	return nil
}

// LoadKeys loads the proving and verifying keys for circuitName from dir.
func LoadKeys(dir, circuitName string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk := groth16.NewProvingKey(ecc.BN254)
	pkPath := filepath.Join(dir, circuitName+"_prover.key")
	f, err := os.Open(pkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open proving key: %w", err)
	}
	if _, err := pk.ReadFrom(f); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read proving key: %w", err)
	}
	f.Close()

	vk := groth16.NewVerifyingKey(ecc.BN254)
	vkPath := filepath.Join(dir, circuitName+"_verifier.key")
	f, err = os.Open(vkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open verifying key: %w", err)
	}
	if _, err := vk.ReadFrom(f); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read verifying key: %w", err)
	}
	f.Close()

	return pk, vk, nil
}

// ─── MPC ceremony (Powers of Tau, 1-of-N trust) ─────────────────────────────

// CeremonyDir is the default directory for ceremony transcript files.
const CeremonyDir = "ceremony"

// CeremonyP1Init initializes Phase 1 (Powers of Tau) sized to circuit.
func CeremonyP1Init(circuit frontend.Circuit) error {
	if err := ensureCeremonyDir(); err != nil {
		return err
	}
	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}

	n := ecc.NextPowerOfTwo(uint64(ccs.GetNbConstraints()))
	log.Info().Uint64("N", n).Int("log2N", bits.Len64(n)-1).Int("constraints", ccs.GetNbConstraints()).Msg("phase 1 domain sized")

	p := mpcsetup.NewPhase1(n)
	path := nextContribPath("phase1")
	if err := saveObject(path, p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote initial phase 1 state")
	return nil
}

// CeremonyP1Contribute adds a Phase 1 contribution on top of the latest
// transcript file found on disk.
func CeremonyP1Contribute() error {
	latest, err := latestContrib("phase1")
	if err != nil {
		return err
	}
	log.Info().Str("path", latest).Msg("loading phase 1 state")

	var p mpcsetup.Phase1
	if err := loadObject(latest, &p); err != nil {
		return err
	}

	log.Info().Msg("contributing randomness to phase 1")
	p.Contribute()

	path := nextContribPath("phase1")
	if err := saveObject(path, &p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote phase 1 contribution")
	return nil
}

// CeremonyP1Verify verifies every Phase 1 contribution and seals the
// transcript with a public beacon, producing SRS commons for Phase 2.
func CeremonyP1Verify(circuit frontend.Circuit, beaconHex string) error {
	beacon, err := parseBeacon(beaconHex)
	if err != nil {
		return err
	}
	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}
	n := ecc.NextPowerOfTwo(uint64(ccs.GetNbConstraints()))

	contribs, err := findContribs("phase1")
	if err != nil {
		return err
	}
	if len(contribs) < 2 {
		return fmt.Errorf("need at least the init file plus one contribution to verify")
	}

	nContribs := len(contribs) - 1
	log.Info().Int("contributions", nContribs).Msg("verifying phase 1")

	phases := make([]*mpcsetup.Phase1, nContribs)
	for i, path := range contribs[1:] {
		phases[i] = new(mpcsetup.Phase1)
		if err := loadObject(path, phases[i]); err != nil {
			return err
		}
	}

	commons, err := mpcsetup.VerifyPhase1(n, beacon, phases...)
	if err != nil {
		return fmt.Errorf("phase 1 verification failed: %w", err)
	}

	srsPath := filepath.Join(CeremonyDir, "srs_commons.bin")
	if err := saveObject(srsPath, &commons); err != nil {
		return err
	}
	log.Info().Str("path", srsPath).Msg("phase 1 verified and sealed")
	return nil
}

// CeremonyP2Init initializes Phase 2 with circuit and the sealed Phase 1
// SRS commons.
func CeremonyP2Init(circuit frontend.Circuit) error {
	if err := ensureCeremonyDir(); err != nil {
		return err
	}
	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}
	r1csConcrete, ok := ccs.(*cs_bn254.R1CS)
	if !ok {
		return fmt.Errorf("phase 2 requires an R1CS (Groth16) circuit: %w", gaderr.ErrBadParameters)
	}

	srsPath := filepath.Join(CeremonyDir, "srs_commons.bin")
	var commons mpcsetup.SrsCommons
	if err := loadObject(srsPath, &commons); err != nil {
		return err
	}

	log.Info().Msg("initializing phase 2 with circuit and srs commons")
	var p mpcsetup.Phase2
	p.Initialize(r1csConcrete, &commons)

	path := nextContribPath("phase2")
	if err := saveObject(path, &p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote initial phase 2 state")
	return nil
}

// CeremonyP2Contribute adds a Phase 2 contribution.
func CeremonyP2Contribute() error {
	latest, err := latestContrib("phase2")
	if err != nil {
		return err
	}
	log.Info().Str("path", latest).Msg("loading phase 2 state")

	var p mpcsetup.Phase2
	if err := loadObject(latest, &p); err != nil {
		return err
	}

	log.Info().Msg("contributing randomness to phase 2")
	p.Contribute()

	path := nextContribPath("phase2")
	if err := saveObject(path, &p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote phase 2 contribution")
	return nil
}

// CeremonyP2Verify verifies every Phase 2 contribution, seals with a public
// beacon, and exports production-ready keys.
func CeremonyP2Verify(circuit frontend.Circuit, beaconHex, outputDir, circuitName string) error {
	beacon, err := parseBeacon(beaconHex)
	if err != nil {
		return err
	}
	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}
	r1csConcrete, ok := ccs.(*cs_bn254.R1CS)
	if !ok {
		return fmt.Errorf("phase 2 requires an R1CS (Groth16) circuit: %w", gaderr.ErrBadParameters)
	}

	srsPath := filepath.Join(CeremonyDir, "srs_commons.bin")
	var commons mpcsetup.SrsCommons
	if err := loadObject(srsPath, &commons); err != nil {
		return err
	}

	contribs, err := findContribs("phase2")
	if err != nil {
		return err
	}
	if len(contribs) < 2 {
		return fmt.Errorf("need at least the init file plus one contribution to verify")
	}

	nContribs := len(contribs) - 1
	log.Info().Int("contributions", nContribs).Msg("verifying phase 2")

	phases := make([]*mpcsetup.Phase2, nContribs)
	for i, path := range contribs[1:] {
		phases[i] = new(mpcsetup.Phase2)
		if err := loadObject(path, phases[i]); err != nil {
			return err
		}
	}

	pk, vk, err := mpcsetup.VerifyPhase2(r1csConcrete, &commons, beacon, phases...)
	if err != nil {
		return fmt.Errorf("phase 2 verification failed: %w", err)
	}

	if err := ExportKeys(pk, vk, outputDir, circuitName); err != nil {
		return err
	}
	log.Info().Msg("ceremony complete, keys are production-ready")
	return nil
}

// ─── internal helpers ───────────────────────────────────────────────────────

func ensureCeremonyDir() error {
	if err := os.MkdirAll(CeremonyDir, 0o755); err != nil {
		return fmt.Errorf("create ceremony dir: %w", err)
	}
	return nil
}

func saveObject(path string, obj io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := obj.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func loadObject(path string, obj io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := obj.ReadFrom(f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func parseBeacon(hexStr string) ([]byte, error) {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("invalid beacon hex: %w", err)
	}
	if len(b) < 16 {
		return nil, fmt.Errorf("beacon must be at least 16 bytes for sufficient entropy")
	}
	return b, nil
}

// findContribs returns sorted paths matching ceremony/<prefix>_NNNN.bin.
func findContribs(prefix string) ([]string, error) {
	pattern := filepath.Join(CeremonyDir, prefix+"_????.bin")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func latestContrib(prefix string) (string, error) {
	contribs, err := findContribs(prefix)
	if err != nil {
		return "", err
	}
	if len(contribs) == 0 {
		return "", fmt.Errorf("no %s contributions found in %s/", prefix, CeremonyDir)
	}
	return contribs[len(contribs)-1], nil
}

func nextContribPath(prefix string) string {
	contribs, _ := findContribs(prefix)
	return filepath.Join(CeremonyDir, fmt.Sprintf("%s_%04d.bin", prefix, len(contribs)))
}
