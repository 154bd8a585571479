package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"booking-flow/internal/configs"
	"booking-flow/internal/delivery/kafka"
	"booking-flow/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env loaded: %s", err)
	}

	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %s", err)
	}
	logrus.Print("config loaded")

	path := cfg.JsonStaticModelPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	body, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("read json file: %s", err)
	}

	var req models.BookingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logrus.Fatalf("not a booking request: %s", err)
	}
	if _, ok := models.ParseKind(string(req.Kind)); !ok {
		logrus.Fatalf("unknown booking kind %q", req.Kind)
	}

	pub := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaTopic)
	defer func() {
		if cerr := pub.Close(); cerr != nil {
			logrus.Errorf("publisher close: %v", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, req.IdempotencyKey, body); err != nil {
		logrus.Fatalf("publish failed: %s", err)
	}
	logrus.WithFields(logrus.Fields{"kind": req.Kind, "key": req.IdempotencyKey}).Print("booking request published")
}
