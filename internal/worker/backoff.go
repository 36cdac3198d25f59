package worker

import (
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// CalculateBackoff determines how long, in seconds, to wait before retrying
// a failed job. It doubles with each attempt and is capped at one hour.
func CalculateBackoff(retryCount int) int32 {
	backoff := math.Pow(2, float64(retryCount)) * 10
	if backoff > 3600 {
		return 3600
	}
	return int32(backoff)
}

// ReceiveCount returns how many times SQS has delivered msg, or 1 when the
// attribute was not requested.
func ReceiveCount(msg types.Message) int {
	raw, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
