package emaillog

import (
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
