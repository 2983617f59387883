package cli

var IsReportable = isReportable
