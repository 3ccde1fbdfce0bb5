package console

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"tarediiran-industries.com/train-dispatch/internal/common"
	"tarediiran-industries.com/train-dispatch/internal/register"
)

// Shared by every menu.
const exitOption = 9

// Main menu.
const (
	displayDeparturesOption = 1
	updateClockOption       = 2
	searchMenuOption        = 3
	addDepartureOption      = 4
)

// Search menu.
const (
	searchByTrainNumberOption = 1
	searchByDestinationOption = 2
)

// Process found trains menu.
const (
	displayFoundOption = 1
	deleteOption       = 2
	changeTrackOption  = 3
	addDelayOption     = 4
)

// Controller drives a Register from numbered console menus:
// main menu -> search menu -> process found trains menu.
type Controller struct {
	register *register.Register
	reader   *Reader
	out      io.Writer
	logger   *zap.Logger
	metrics  *common.Metrics

	mainMenu    *Menu
	searchMenu  *Menu
	processMenu *Menu
}

func NewController(reg *register.Register, in io.Reader, out io.Writer, logger *zap.Logger, metrics *common.Metrics) *Controller {
	controller := &Controller{
		register:    reg,
		reader:      NewReader(in, out),
		out:         out,
		logger:      logger,
		metrics:     metrics,
		mainMenu:    NewMenu("Main Menu"),
		searchMenu:  NewMenu("Search Menu"),
		processMenu: NewMenu("Process Found Trains Menu"),
	}

	controller.mainMenu.mustAddOption(displayDeparturesOption, "Display train departures")
	controller.mainMenu.mustAddOption(updateClockOption, "Update clock")
	controller.mainMenu.mustAddOption(searchMenuOption, "Search (delete, change track, add delay)")
	controller.mainMenu.mustAddOption(addDepartureOption, "Add train departure")
	controller.mainMenu.mustAddOption(exitOption, "Exit application")

	controller.searchMenu.mustAddOption(searchByTrainNumberOption, "Search by train number")
	controller.searchMenu.mustAddOption(searchByDestinationOption, "Search by destination")
	controller.searchMenu.mustAddOption(exitOption, "Exit to main menu")

	controller.processMenu.mustAddOption(displayFoundOption, "Display found trains")
	controller.processMenu.mustAddOption(deleteOption, "Delete trains")
	controller.processMenu.mustAddOption(changeTrackOption, "Change track")
	controller.processMenu.mustAddOption(addDelayOption, "Add delay")
	controller.processMenu.mustAddOption(exitOption, "Back to search menu")

	controller.metrics.RegisterSize.Set(float64(reg.Len()))
	return controller
}

func (controller *Controller) printf(format string, args ...any) {
	fmt.Fprintf(controller.out, format, args...)
}

// Run blocks until the operator exits or the input ends.
func (controller *Controller) Run() error {
	controller.logger.Info("console started",
		zap.Int("departures", controller.register.Len()),
		zap.Stringer("clock", controller.register.Clock()),
	)

	err := controller.handleMainMenu()
	if errors.Is(err, io.EOF) {
		controller.logger.Debug("input closed")
		err = nil
	}

	controller.logger.Info("console stopped", zap.Int("departures", controller.register.Len()))
	return err
}

// fail reports a rejected register operation and keeps the session going.
func (controller *Controller) fail(operation string, err error) {
	controller.metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
	controller.logger.Debug("operation rejected", zap.String("operation", operation), zap.Error(err))
	controller.printf("Error: %v\n\n", err)
}

func (controller *Controller) updateSize() {
	controller.metrics.RegisterSize.Set(float64(controller.register.Len()))
}

func (controller *Controller) handleMainMenu() error {
	for {
		option, err := controller.reader.MenuOption(controller.mainMenu)
		if err != nil {
			return err
		}

		benchmarker := common.NewBenchmarker(controller.logger, fmt.Sprintf("main-menu-%d", option))
		switch option {
		case displayDeparturesOption:
			controller.displayDepartures()
		case updateClockOption:
			err = controller.handleUpdateClock()
		case searchMenuOption:
			err = controller.handleSearchMenu()
		case addDepartureOption:
			err = controller.handleAddDeparture()
		case exitOption:
			benchmarker.Close()
			return nil
		}
		benchmarker.Close()

		if err != nil {
			return err
		}
	}
}

func (controller *Controller) displayDepartures() {
	controller.printf("Current time: %s\n", controller.register.Clock())
	if controller.register.Len() == 0 {
		controller.printf("No trains registered\n\n")
		return
	}
	controller.printf("%s\n", DepartureTable(controller.register.SortByEffectiveTime()))
}

func (controller *Controller) handleUpdateClock() error {
	current := controller.register.Clock()
	controller.printf("Current time: %s\n", current)

	newTime, err := controller.reader.Time("Enter new time in format (hh:mm):")
	if err != nil {
		return err
	}

	if newTime.Before(current.Time) {
		rollOver, err := controller.reader.Confirm(fmt.Sprintf("%s is earlier than %s. Move to %s tomorrow?", newTime, current.Time, newTime))
		if err != nil {
			return err
		}
		if !rollOver {
			controller.printf("Clock not changed\n\n")
			return nil
		}
		err = controller.register.RollOver(newTime)
		if err != nil {
			controller.fail("set-clock", err)
			return nil
		}
	} else if err := controller.register.SetTime(newTime); err != nil {
		controller.fail("set-clock", err)
		return nil
	}

	departed := controller.register.DepartTrains()
	controller.metrics.DeparturesDepartedTotal.Add(float64(len(departed)))
	controller.updateSize()
	controller.logger.Info("clock updated",
		zap.Stringer("clock", controller.register.Clock()),
		zap.Int("departed", len(departed)),
	)

	if len(departed) == 0 {
		controller.printf("No trains departed\n\n")
		return nil
	}
	controller.printf("Departed trains:\n%s\n", DepartureTable(departed))
	return nil
}

func (controller *Controller) handleAddDeparture() error {
	departureTime, err := controller.reader.Time("Enter departure time in format (hh:mm):")
	if err != nil {
		return err
	}
	line, err := controller.reader.Line()
	if err != nil {
		return err
	}
	trainNumber, err := controller.reader.TrainNumber()
	if err != nil {
		return err
	}
	destination, err := controller.reader.Destination()
	if err != nil {
		return err
	}
	track, err := controller.reader.Track()
	if err != nil {
		return err
	}
	delayMinutes, err := controller.reader.DelayMinutes()
	if err != nil {
		return err
	}

	departure, err := register.NewDeparture(departureTime, line, trainNumber, destination, track, time.Duration(delayMinutes)*time.Minute)
	if err != nil {
		controller.fail("add", err)
		return nil
	}
	if err := controller.register.Add(departure); err != nil {
		controller.fail("add", err)
		return nil
	}

	controller.metrics.DeparturesAddedTotal.Inc()
	controller.updateSize()
	controller.logger.Info("departure added", zap.Int("train_number", trainNumber))
	controller.printf("Added train %d\n\n", trainNumber)
	return nil
}

func (controller *Controller) handleSearchMenu() error {
	for {
		option, err := controller.reader.MenuOption(controller.searchMenu)
		if err != nil {
			return err
		}

		switch option {
		case searchByTrainNumberOption:
			err = controller.handleSearchByTrainNumber()
		case searchByDestinationOption:
			err = controller.handleSearchByDestination()
		case exitOption:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (controller *Controller) handleSearchByTrainNumber() error {
	trainNumber, err := controller.reader.TrainNumber()
	if err != nil {
		return err
	}

	departure, ok := controller.register.FindByTrainNumber(trainNumber)
	if !ok {
		controller.printf("Train number not found\n\n")
		return nil
	}

	controller.printf("Train found:\n%s\n", DepartureTable([]register.Departure{departure}))
	return controller.handleProcessMenu([]int{trainNumber})
}

func (controller *Controller) handleSearchByDestination() error {
	destination, err := controller.reader.Destination()
	if err != nil {
		return err
	}

	found := controller.register.FindByDestination(destination)
	if len(found) == 0 {
		controller.printf("No trains found\n\n")
		return nil
	}

	trainNumbers := make([]int, len(found))
	for i, departure := range found {
		trainNumbers[i] = departure.TrainNumber()
	}

	controller.printf("Trains found:\n%s\n", DepartureTable(found))
	return controller.handleProcessMenu(trainNumbers)
}

// lookup re-reads the found trains so the table shows current state.
func (controller *Controller) lookup(trainNumbers []int) []register.Departure {
	out := make([]register.Departure, 0, len(trainNumbers))
	for _, n := range trainNumbers {
		if departure, ok := controller.register.FindByTrainNumber(n); ok {
			out = append(out, departure)
		}
	}
	return out
}

func (controller *Controller) handleProcessMenu(found []int) error {
	for len(found) > 0 {
		option, err := controller.reader.MenuOption(controller.processMenu)
		if err != nil {
			return err
		}

		switch option {
		case displayFoundOption:
			controller.printf("%s\n", DepartureTable(controller.lookup(found)))
		case deleteOption:
			deleted, err := controller.handleDelete(found)
			if err != nil {
				return err
			}
			if deleted {
				found = nil
			}
		case changeTrackOption:
			err = controller.handleChangeTrack(found)
		case addDelayOption:
			err = controller.handleAddDelay(found)
		case exitOption:
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (controller *Controller) handleDelete(found []int) (bool, error) {
	confirmed, err := controller.reader.Confirm(fmt.Sprintf("Delete %d train(s)?", len(found)))
	if err != nil {
		return false, err
	}
	if !confirmed {
		controller.printf("Trains not deleted\n\n")
		return false, nil
	}

	deleted, err := controller.register.DeleteMany(found)
	if err != nil {
		controller.fail("delete", err)
		return false, nil
	}

	controller.metrics.DeparturesDeletedTotal.Add(float64(deleted))
	controller.updateSize()
	controller.logger.Info("departures deleted", zap.Ints("train_numbers", found))
	controller.printf("Deleted %d trains\n\n", deleted)
	return true, nil
}

func (controller *Controller) handleChangeTrack(found []int) error {
	track, err := controller.reader.Track()
	if err != nil {
		return err
	}

	if err := controller.register.ChangeTracks(found, track); err != nil {
		controller.fail("change-track", err)
		return nil
	}

	controller.logger.Info("track changed", zap.Ints("train_numbers", found), zap.Int("track", track))
	controller.printf("Changed %d trains to track %d\n\n", len(found), track)
	return nil
}

func (controller *Controller) handleAddDelay(found []int) error {
	minutes, err := controller.reader.DelayMinutes()
	if err != nil {
		return err
	}

	if err := controller.register.AddDelay(found, minutes); err != nil {
		controller.fail("add-delay", err)
		return nil
	}

	controller.logger.Info("delay added", zap.Ints("train_numbers", found), zap.Int("minutes", minutes))
	controller.printf("Added %d minutes to %d trains\n\n", minutes, len(found))
	return nil
}
