package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/axdroid/go-axdroid/adb/accessibility"
	"github.com/axdroid/go-axdroid/adb/remoteaccess"
	"github.com/axdroid/go-axdroid/config"
	"github.com/docopt/docopt-go"
	log "github.com/sirupsen/logrus"
)

// JSONdisabled enables or disables output in JSON format
var JSONdisabled = false

const version = "local-build"

func main() {
	Main()
}

// Main exports main for testing
func Main() {
	usage := fmt.Sprintf(`axdroid %s

Usage:
  axdroid devices [options] [--details]
  axdroid track [options]
  axdroid discover [options] [--timeout=<seconds>]
  axdroid services [options]
  axdroid has-services [options]
  axdroid remote-apps [options]
  axdroid open-settings [options]
  axdroid watch [options]
  axdroid -h | --help
  axdroid --version | version [options]

Options:
  -v --verbose       Enable Debug Logging.
  -t --trace         Enable Trace Logging (dump every message).
  --nojson           Disable JSON output (default).
  -h --help          Show this screen.
  --serial=<serial>  Serial of the device, the first usable one is used when omitted.

The commands work as following:
	The default output of all commands is JSON. Should you prefer human readable output, specify the --nojson option with your command.
	Set ADB_SERVER_SOCKET to talk to an adb server other than tcp://127.0.0.1:5037.

   axdroid devices [options] [--details]              Prints a list of all devices the adb server knows. If --details is specified, it includes model and Android version of each device.
   axdroid track [options]                            Keeps a persistent connection open and prints the device list whenever devices come or go.
   axdroid discover [options] [--timeout=<seconds>]   Browses the local network via mDNS for devices with adb over wifi enabled.
   axdroid services [options]                         Prints the currently enabled accessibility services of the device.
   axdroid has-services [options]                     Prints whether at least one accessibility service is enabled.
   axdroid remote-apps [options]                      Prints the installed well-known remote-access apps. Extend the built-in list with AXDROID_CUSTOM_PACKAGES.
   axdroid open-settings [options]                    Opens the accessibility settings screen on the device.
   axdroid watch [options]                            Subscribes to accessibility service changes and prints every new snapshot until interrupted.
   axdroid -h | --help                                Prints this screen.
   axdroid --version | version [options]              Prints the version

  `, version)
	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		log.Fatal(err)
	}
	disableJSON, _ := arguments.Bool("--nojson")
	if disableJSON {
		JSONdisabled = true
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if config.JSONLogDisabled() {
		log.SetFormatter(&log.TextFormatter{})
	}

	traceLevelEnabled, _ := arguments.Bool("--trace")
	if traceLevelEnabled {
		log.Info("Set Trace mode")
		log.SetLevel(log.TraceLevel)
	} else {
		verboseLoggingEnabledLong, _ := arguments.Bool("--verbose")
		if verboseLoggingEnabledLong {
			log.Info("Set Debug mode")
			log.SetLevel(log.DebugLevel)
		}
	}
	log.Debug(arguments)

	shouldPrintVersionNoDashes, _ := arguments.Bool("version")
	shouldPrintVersion, _ := arguments.Bool("--version")
	if shouldPrintVersionNoDashes || shouldPrintVersion {
		printVersion()
		return
	}

	b, _ := arguments.Bool("devices")
	if b {
		details, _ := arguments.Bool("--details")
		printDeviceList(details)
		return
	}

	b, _ = arguments.Bool("track")
	if b {
		trackDevices()
		return
	}

	b, _ = arguments.Bool("discover")
	if b {
		seconds, err := arguments.Int("--timeout")
		if err != nil || seconds <= 0 {
			seconds = 5
		}
		discoverDevices(time.Duration(seconds) * time.Second)
		return
	}

	serial, _ := arguments.String("--serial")
	device, err := adb.GetDevice(serial)
	if err != nil {
		log.Fatal(err)
	}

	b, _ = arguments.Bool("services")
	if b {
		printEnabledServices(device)
		return
	}

	b, _ = arguments.Bool("has-services")
	if b {
		printHasServices(device)
		return
	}

	b, _ = arguments.Bool("remote-apps")
	if b {
		printRemoteAccessApps(device)
		return
	}

	b, _ = arguments.Bool("open-settings")
	if b {
		accessibility.New(device).OpenAccessibilitySettings()
		return
	}

	b, _ = arguments.Bool("watch")
	if b {
		watchServices(device)
		return
	}
}

func printVersion() {
	versionMap := map[string]interface{}{"version": version}
	if JSONdisabled {
		fmt.Println(version)
	} else {
		fmt.Println(convertToJSONString(versionMap))
	}
}

func printDeviceList(details bool) {
	deviceList, err := adb.ListDevices()
	if err != nil {
		failWithError("failed getting device list", err)
	}
	if !details {
		if JSONdisabled {
			fmt.Print(deviceList.String())
		} else {
			fmt.Println(convertToJSONString(deviceList.CreateMapForJSONConverter()))
		}
		return
	}
	detailed := make([]map[string]interface{}, 0, len(deviceList.DeviceList))
	for _, device := range deviceList.DeviceList {
		entry := map[string]interface{}{
			"serial": device.Serial,
			"state":  device.State,
			"model":  device.Model,
		}
		if device.IsUsable() {
			androidVersion, err := adb.GetAndroidVersion(device)
			if err != nil {
				log.Debugf("no Android version for %s: %v", device.Serial, err)
			} else {
				entry["androidVersion"] = androidVersion.String()
			}
		}
		detailed = append(detailed, entry)
	}
	fmt.Println(convertToJSONString(detailed))
}

func trackDevices() {
	go func() {
		for {
			conn, err := adb.NewHostConnectionSimple()
			if err != nil {
				log.Errorf("could not connect to the adb server with err %+v, will retry in 3 seconds...", err)
				time.Sleep(time.Second * 3)
				continue
			}
			receiver, err := conn.TrackDevices()
			if err != nil {
				log.Error("Failed issuing track-devices command, will retry in 3 seconds", err)
				conn.Close()
				time.Sleep(time.Second * 3)
				continue
			}
			for {
				deviceList, err := receiver()
				if err != nil {
					log.Error("track-devices connection dropped", err)
					break
				}
				fmt.Println(convertToJSONString(deviceList.CreateMapForJSONConverter()))
			}
			conn.Close()
		}
	}()
	waitForSignal()
}

func discoverDevices(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	devices, err := adb.DiscoverWirelessDevices(ctx)
	if err != nil {
		failWithError("discovery failed", err)
	}
	fmt.Println(convertToJSONString(devices))
}

func printEnabledServices(device adb.DeviceEntry) {
	services, err := accessibility.New(device).EnabledServices()
	if err != nil {
		failWithError("failed getting enabled accessibility services", err)
	}
	fmt.Println(convertToJSONString(services))
}

func printHasServices(device adb.DeviceEntry) {
	enabled, err := accessibility.New(device).HasEnabledServices()
	if err != nil {
		failWithError("failed checking accessibility services", err)
	}
	fmt.Println(convertToJSONString(map[string]bool{"hasEnabledServices": enabled}))
}

func printRemoteAccessApps(device adb.DeviceEntry) {
	apps, err := remoteaccess.ListInstalled(device, config.CustomRemoteAccessPackages())
	if err != nil {
		failWithError("failed getting remote-access apps", err)
	}
	fmt.Println(convertToJSONString(apps))
}

func watchServices(device adb.DeviceEntry) {
	bridge := accessibility.New(device)
	monitor := accessibility.NewShellSettingsMonitor(device, time.Second)
	multiplexer := accessibility.NewMultiplexer(bridge, monitor)
	defer multiplexer.Close()

	subscription, err := multiplexer.AddListener(func(services []accessibility.ServiceInfo) {
		fmt.Println(convertToJSONString(services))
	})
	if err != nil {
		failWithError("failed subscribing to accessibility changes", err)
	}
	defer subscription.Remove()
	log.WithFields(log.Fields{"serial": device.Serial}).Info("watching accessibility services, press ctrl-c to stop")
	waitForSignal()
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

func convertToJSONString(data interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		fmt.Println(err)
		return ""
	}
	return string(b)
}

func failWithError(msg string, err error) {
	log.WithFields(log.Fields{"err": err}).Fatalf(msg)
}
