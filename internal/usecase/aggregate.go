package usecase

import "github.com/jomarcello/Signal-Processor/internal/domain/models"

// aggregateOutcomes merges settled call outcomes into the response mapping.
// Keys are logical service names, so repeated dispatches under the same
// configuration produce the same key set no matter how the calls interleave.
func aggregateOutcomes(outcomes map[string]models.CallOutcome) models.DispatchResult {
	result := make(models.DispatchResult, len(outcomes))
	for name, o := range outcomes {
		result[name] = models.ResultEntry(o)
	}
	return result
}

// outcomeKinds projects outcomes to their kind labels for the audit record.
func outcomeKinds(outcomes map[string]models.CallOutcome) map[string]string {
	kinds := make(map[string]string, len(outcomes))
	for name, o := range outcomes {
		kinds[name] = string(o.Kind())
	}
	return kinds
}
