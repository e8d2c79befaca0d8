package orchestrator

// controllerRoot is the fixed root prefix every rollout URL is rooted
// under.
const controllerRoot = "/DEFAULT/controller/v1"

// basePath returns "<BASE>/<board>-<devid>", the address of this
// device's control resource.
func basePath(board, devID string) string {
	return controllerRoot + "/" + board + "-" + devID
}

func configDataPath(base string) string {
	return base + "/configData"
}

func deploymentPath(base, deploymentBaseSuffix string) string {
	return base + "/" + deploymentBaseSuffix
}

func cancelFeedbackPath(base, cancelActionSuffix string) string {
	return base + "/" + cancelActionSuffix + "/feedback"
}

func deploymentFeedbackPath(base, actionID string) string {
	return base + "/deploymentBase/" + actionID + "/feedback"
}
