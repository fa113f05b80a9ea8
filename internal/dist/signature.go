package dist

import (
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // ProtonMail's maintained fork
)

// verifyDetachedSignature checks artifactPath against a detached PGP
// signature using the publisher keyring at keyringPath. Both armored
// and binary forms are accepted for the keyring and the signature.
func verifyDetachedSignature(keyringPath, artifactPath, signaturePath string) error {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}

	artifact, err := os.Open(artifactPath)
	if err != nil {
		return fmt.Errorf("%w: open artifact: %v", ErrSignature, err)
	}
	defer artifact.Close()

	sig, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("%w: open signature: %v", ErrSignature, err)
	}
	defer sig.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, artifact, sig, nil)
	if err != nil {
		if _, serr := artifact.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("%w: rewind artifact: %v", ErrSignature, serr)
		}
		if _, serr := sig.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("%w: rewind signature: %v", ErrSignature, serr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, artifact, sig, nil)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}

	return nil
}

func loadKeyring(path string) (openpgp.EntityList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer file.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(file)
	if err != nil {
		if _, serr := file.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", serr)
		}
		keyring, err = openpgp.ReadKeyRing(file)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}
