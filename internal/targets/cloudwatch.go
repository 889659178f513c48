package targets

import (
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/jdwit/s3-metadata-extractor/internal/types"
)

type CloudWatchLogsAPI interface {
	PutLogEvents(*cloudwatchlogs.PutLogEventsInput) (*cloudwatchlogs.PutLogEventsOutput, error)
	CreateLogGroup(*cloudwatchlogs.CreateLogGroupInput) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(*cloudwatchlogs.CreateLogStreamInput) (*cloudwatchlogs.CreateLogStreamOutput, error)
	DescribeLogGroups(*cloudwatchlogs.DescribeLogGroupsInput) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeLogStreams(*cloudwatchlogs.DescribeLogStreamsInput) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
}

type LogConfig struct {
	LogGroupName  string
	LogStreamName string
}

// CloudWatchTarget writes one log event per processed object.
type CloudWatchTarget struct {
	cwClient  CloudWatchLogsAPI
	logConfig LogConfig
}

func (c *CloudWatchTarget) Send(entry types.MetadataEntry) error {
	jsonData, err := marshalEntry(entry)
	if err != nil {
		return fmt.Errorf("error marshaling metadata entry to JSON: %w", err)
	}

	_, err = c.cwClient.PutLogEvents(&cloudwatchlogs.PutLogEventsInput{
		LogEvents: []*cloudwatchlogs.InputLogEvent{{
			Message:   aws.String(string(jsonData)),
			Timestamp: aws.Int64(entry.Timestamp.UnixMilli()),
		}},
		LogGroupName:  aws.String(c.logConfig.LogGroupName),
		LogStreamName: aws.String(c.logConfig.LogStreamName),
	})
	if err != nil {
		return fmt.Errorf("error sending metadata to CloudWatch: %w", err)
	}

	return nil
}

func NewCloudWatchTarget(sess *session.Session) (Target, error) {
	logGroupName := os.Getenv("CLOUDWATCH_LOG_GROUP")
	if logGroupName == "" {
		return nil, fmt.Errorf("environment variable CLOUDWATCH_LOG_GROUP is required")
	}

	logStreamName := os.Getenv("CLOUDWATCH_LOG_STREAM")
	if logStreamName == "" {
		return nil, fmt.Errorf("environment variable CLOUDWATCH_LOG_STREAM is required")
	}

	return newCloudWatchTarget(cloudwatchlogs.New(sess), LogConfig{
		LogGroupName:  logGroupName,
		LogStreamName: logStreamName,
	})
}

func newCloudWatchTarget(client CloudWatchLogsAPI, logConfig LogConfig) (*CloudWatchTarget, error) {
	if err := ensureLogGroupAndLogStreamExists(client, logConfig); err != nil {
		return nil, fmt.Errorf("error creating log group and stream: %w", err)
	}

	return &CloudWatchTarget{cwClient: client, logConfig: logConfig}, nil
}

func ensureLogGroupAndLogStreamExists(client CloudWatchLogsAPI, logConfig LogConfig) error {
	err := ensureLogGroupExists(client, logConfig.LogGroupName)
	if err != nil {
		return err
	}
	return ensureLogStreamExists(client, logConfig.LogGroupName, logConfig.LogStreamName)
}

func ensureLogGroupExists(client CloudWatchLogsAPI, name string) error {
	resp, err := client.DescribeLogGroups(&cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: aws.String(name),
	})
	if err != nil {
		return err
	}
	for _, logGroup := range resp.LogGroups {
		if aws.StringValue(logGroup.LogGroupName) == name {
			return nil
		}
	}
	log.Printf("creating log group %s", name)
	_, err = client.CreateLogGroup(&cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(name),
	})

	return err
}

func ensureLogStreamExists(client CloudWatchLogsAPI, logGroupName, logStreamName string) error {
	resp, err := client.DescribeLogStreams(&cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName:        aws.String(logGroupName),
		LogStreamNamePrefix: aws.String(logStreamName),
	})
	if err != nil {
		return err
	}
	for _, logStream := range resp.LogStreams {
		if aws.StringValue(logStream.LogStreamName) == logStreamName {
			return nil
		}
	}
	log.Printf("creating log stream %s in log group %s", logStreamName, logGroupName)
	_, err = client.CreateLogStream(&cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(logGroupName),
		LogStreamName: aws.String(logStreamName),
	})

	return err
}
