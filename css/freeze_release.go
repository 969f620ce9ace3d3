//go:build !xcssdebug

package css

func freeze(*Stylesheet) fingerprint {
	return fingerprint{}
}
