package main

import (
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jdwit/s3-metadata-extractor/internal/config"
	"github.com/jdwit/s3-metadata-extractor/internal/extractor"
	"github.com/jdwit/s3-metadata-extractor/internal/logging"
	"github.com/joho/godotenv"
)

func createSession(endpoint string) (*session.Session, error) {
	if endpoint != "" {
		// localstack
		return session.NewSession(&aws.Config{
			Endpoint:         aws.String(endpoint),
			DisableSSL:       aws.Bool(true),
			S3ForcePathStyle: aws.Bool(true),
		})
	}

	return session.NewSession()
}

func main() {
	inLambda := os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
	if !inLambda {
		// optional, cli mode only
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		log.Fatalln(err)
	}

	sess, err := createSession(cfg.Endpoint)
	if err != nil {
		log.Fatalln(err)
	}

	me, err := extractor.NewMetadataExtractor(sess, cfg, logger)
	if err != nil {
		log.Fatalln(err)
	}

	if inLambda {
		log.Println("running in AWS Lambda environment")
		lambda.Start(me.HandleLambdaEvent)
	} else {
		log.Println("running in cli mode")
		if len(os.Args) < 2 {
			log.Fatalln("s3 url is required as an argument")
		}
		err := me.HandleS3URL(os.Args[1])
		if err != nil {
			log.Fatalln(err)
		}
	}
}
