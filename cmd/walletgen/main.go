// walletgen batch-generates TON V4R2 wallets offline and prints them
// as JSON. Useful for pre-provisioning wallet material for the panel.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/ton"
)

type output struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Count       int                    `json:"count"`
	Wallets     []*ton.GeneratedWallet `json:"wallets"`
}

func main() {
	count := flag.Int("count", 1, "number of wallets to generate")
	outFile := flag.String("out", "", "write JSON to file instead of stdout")
	flag.Parse()

	log, _ := zap.NewProduction()
	defer log.Sync()

	if *count <= 0 {
		log.Fatal("count must be positive", zap.Int("count", *count))
	}

	wallets := make([]*ton.GeneratedWallet, 0, *count)
	for i := 0; i < *count; i++ {
		w, err := ton.GenerateWallet()
		if err != nil {
			log.Fatal("wallet generation failed", zap.Int("index", i), zap.Error(err))
		}
		wallets = append(wallets, w)
	}

	data, err := json.MarshalIndent(output{
		GeneratedAt: time.Now().UTC(),
		Count:       len(wallets),
		Wallets:     wallets,
	}, "", "  ")
	if err != nil {
		log.Fatal("marshal failed", zap.Error(err))
	}
	data = append(data, '\n')

	if *outFile != "" {
		if err := os.WriteFile(*outFile, data, 0o600); err != nil {
			log.Fatal("write failed", zap.String("file", *outFile), zap.Error(err))
		}
		log.Info("wallets written", zap.Int("count", len(wallets)), zap.String("file", *outFile))
		return
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Fatal("write failed", zap.Error(err))
	}
}
