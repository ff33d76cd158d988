package keys

import (
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"

	"github.com/iron-fish/sapling-go/ironerr"
)

// wordlistMu guards bip39's package-global word list, which is not
// goroutine-safe to swap; FromWords/ToWords serialize on it rather than
// risk two goroutines racing to set different languages mid-encode.
var wordlistMu sync.Mutex

var languageWordlists = map[string][]string{
	"english":             wordlists.English,
	"japanese":            wordlists.Japanese,
	"chinese_simplified":  wordlists.ChineseSimplified,
	"chinese_traditional": wordlists.ChineseTraditional,
	"french":              wordlists.French,
	"italian":             wordlists.Italian,
	"korean":              wordlists.Korean,
	"spanish":             wordlists.Spanish,
}

func selectWordlist(language string) ([]string, error) {
	wl, ok := languageWordlists[strings.ToLower(language)]
	if !ok {
		return nil, ironerr.New(ironerr.InvalidLanguage)
	}
	return wl, nil
}

// ToWords encodes the spending key's 32-byte seed as a 24-word BIP-39
// mnemonic in the given language.
func (k *SaplingKey) ToWords(language string) (string, error) {
	wl, err := selectWordlist(language)
	if err != nil {
		return "", err
	}

	wordlistMu.Lock()
	defer wordlistMu.Unlock()
	bip39.SetWordList(wl)

	mnemonic, err := bip39.NewMnemonic(k.SpendingKey[:])
	if err != nil {
		return "", ironerr.Wrap(ironerr.InvalidData, err)
	}
	return mnemonic, nil
}

// FromWords recovers a SaplingKey from a BIP-39 mnemonic in the given
// language. The mnemonic must decode to exactly 32 bytes of entropy.
func FromWords(mnemonic string, language string) (*SaplingKey, error) {
	wl, err := selectWordlist(language)
	if err != nil {
		return nil, err
	}

	wordlistMu.Lock()
	bip39.SetWordList(wl)
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	wordlistMu.Unlock()
	if err != nil {
		return nil, ironerr.Wrap(ironerr.InvalidSeed, err)
	}

	return FromBytes(entropy)
}
