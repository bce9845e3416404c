package cmd

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/deskvault/internal/configs"
	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/PolarWolf314/deskvault/internal/secrets"
	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/PolarWolf314/deskvault/internal/utils"
	"github.com/spf13/cobra"
)

var (
	deviceKeypairImport string
	deviceKeypairForce  bool
)

func init() {
	deviceKeypairCmd.Flags().StringVar(&deviceKeypairImport, "import", "", "use the ed25519 key in this OpenSSH private key file as the device key")
	deviceKeypairCmd.Flags().BoolVar(&deviceKeypairForce, "force", false, "with --import, replace a keypair this installation already has")
	DeviceCmd.AddCommand(deviceKeypairCmd)
}

func resetDeviceKeypairState() {
	deviceKeypairImport = ""
	deviceKeypairForce = false
}

var deviceKeypairCmd = &cobra.Command{
	Use:   "keypair",
	Short: "Show or import the device keypair",
	Long: `Prints the public half of the device keypair and its SSH fingerprint,
generating the keypair if there is none yet.

With --import, an existing ed25519 SSH key becomes the device key. This only
works while the installation has no keypair yet; --force replaces an existing
one. Importing resets key confirmation and every host confirmation.

Examples:
  deskvault device keypair
  deskvault device keypair --import ~/.ssh/id_ed25519
  deskvault device keypair --import ~/.ssh/id_ed25519 --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting device keypair command")
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if deviceKeypairForce && deviceKeypairImport == "" {
			return Logger.ErrorfAndReturn("--force only applies with --import")
		}
		if deviceKeypairImport != "" {
			if err := importKeypair(s, deviceKeypairImport); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Success.Sprint("✓")+" Imported device key from "+ui.Path.Sprint(deviceKeypairImport))
		}

		pair := s.GetKeyPair()
		if pair.Empty() {
			return Logger.ErrorfAndReturn("%v", kerrors.ErrKeyGenFailed)
		}
		fingerprint, err := configs.Fingerprint(pair.PublicKey)
		if err != nil {
			return Logger.ErrorfAndReturn("Invalid device key: %v", err)
		}

		field(out, "Public key", base64.StdEncoding.EncodeToString(pair.PublicKey))
		field(out, "Fingerprint", ui.Highlight.Sprint(fingerprint))
		field(out, "Status", ui.Trust(s.GetKeyConfirmed()))
		return nil
	},
}

func importKeypair(s *configs.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to read key file: %v", err)
	}

	key, err := secrets.ParseOpenSSHPrivateKey(data, nil)
	if errors.Is(err, secrets.ErrPassphraseRequired) {
		passphrase, perr := utils.ReadPassphrase("Passphrase for " + path + ": ")
		if perr != nil {
			return Logger.ErrorfAndReturn("%v: %v", err, perr)
		}
		key, err = secrets.ParseOpenSSHPrivateKey(data, []byte(passphrase))
	}
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to load key: %v", err)
	}

	pair := configs.KeyPair{
		SecretKey: key,
		PublicKey: key.Public().(ed25519.PublicKey),
	}
	install := s.SetKeyPair
	if deviceKeypairForce {
		install = s.ReplaceKeyPair
	}
	if err := install(pair); err != nil {
		if errors.Is(err, kerrors.ErrKeyPairLocked) && !deviceKeypairForce {
			return Logger.ErrorfAndReturn("Failed to install key: %v (use --force to replace it)", err)
		}
		return Logger.ErrorfAndReturn("Failed to install key: %v", err)
	}
	if err := s.ResetTrust(); err != nil {
		return Logger.ErrorfAndReturn("Failed to reset trust: %v", err)
	}
	return nil
}
