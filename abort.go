package soloworker

import "os"

// osExit is os.Exit, indirected so tests can observe an abort without
// actually terminating the test binary.
var osExit = os.Exit
